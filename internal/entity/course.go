package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseDraft     = "Draft"
	CoursePublished = "Published"
)

type Course struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                      `gorm:"size:200;not null" json:"course_name"`
	Description      string                      `gorm:"type:text;not null" json:"course_description"`
	WhatYouWillLearn string                      `gorm:"type:text" json:"what_you_will_learn"`
	InstructorID     uuid.UUID                   `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Instructor       *User                       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	CategoryID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"category_id"`
	Category         *Category                   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price            float64                     `gorm:"not null;default:0" json:"price"`
	Thumbnail        string                      `gorm:"type:text" json:"thumbnail"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags"`
	Instructions     datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"instructions"`
	Status           string                      `gorm:"size:20;not null;default:Draft;index" json:"status"`
	Sections         []Section                   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course_content"`
	Reviews          []RatingAndReview           `gorm:"foreignKey:CourseID" json:"rating_and_reviews,omitempty"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// LectureCount is the number of subsections across all loaded sections.
func (c *Course) LectureCount() int {
	total := 0
	for _, s := range c.Sections {
		total += len(s.SubSections)
	}
	return total
}

type Section struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"-"`
	Name        string       `gorm:"size:200;not null" json:"section_name"`
	Position    int          `gorm:"not null;default:0" json:"-"`
	SubSections []SubSection `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"sub_sections"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type SubSection struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	VideoURL     string    `gorm:"type:text" json:"video_url"`
	TimeDuration string    `gorm:"size:20;not null;default:0" json:"time_duration"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *SubSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
