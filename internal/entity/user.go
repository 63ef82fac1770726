package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccountStudent    = "Student"
	AccountInstructor = "Instructor"
	AccountAdmin      = "Admin"
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName           string     `gorm:"size:100;not null" json:"first_name"`
	LastName            string     `gorm:"size:100;not null" json:"last_name"`
	Email               string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash        string     `gorm:"size:255;not null" json:"-"`
	AccountType         string     `gorm:"size:20;not null;index" json:"account_type"`
	Active              bool       `gorm:"not null;default:true" json:"active"`
	Image               string     `gorm:"type:text" json:"image"`
	ResetToken          *string    `gorm:"size:64;uniqueIndex" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	Profile             *Profile   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Profile struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Gender        *string   `gorm:"size:20" json:"gender"`
	DateOfBirth   *string   `gorm:"size:20" json:"date_of_birth"`
	About         *string   `gorm:"type:text" json:"about"`
	ContactNumber *string   `gorm:"size:20" json:"contact_number"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
