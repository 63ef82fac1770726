package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is the course-side membership of a student.
type Enrollment struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CourseProgress is unique per (course, user).
type CourseProgress struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID          uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_progress_course_user" json:"course_id"`
	UserID            uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_progress_course_user;index" json:"user_id"`
	CompletedLectures []CompletedLecture `gorm:"foreignKey:ProgressID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *CourseProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CompletedVideos returns the ids of the completed subsections.
func (p *CourseProgress) CompletedVideos() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.CompletedLectures))
	for _, l := range p.CompletedLectures {
		ids = append(ids, l.SubSectionID)
	}
	return ids
}

type CompletedLecture struct {
	ProgressID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"progress_id"`
	SubSectionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"sub_section_id"`
	CompletedAt  time.Time `gorm:"autoCreateTime" json:"completed_at"`
}
