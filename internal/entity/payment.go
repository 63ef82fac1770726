package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentCreated = "created"
	PaymentPaid    = "paid"
)

// PaymentOrder mirrors an order created at the payment gateway.
type PaymentOrder struct {
	ID        uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string                         `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	PaymentID string                         `gorm:"size:64" json:"payment_id,omitempty"`
	UserID    uuid.UUID                      `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount    int64                          `gorm:"not null" json:"amount"`
	Currency  string                         `gorm:"size:3;not null" json:"currency"`
	Receipt   string                         `gorm:"size:64;not null" json:"receipt"`
	CourseIDs datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb" json:"course_ids"`
	Status    string                         `gorm:"size:20;not null;default:created" json:"status"`
	CreatedAt time.Time                      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *PaymentOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
