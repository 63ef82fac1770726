package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRatingRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Review   string `json:"review" binding:"required,max=2000"`
}

type AverageRatingQuery struct {
	CourseID string `form:"courseId" binding:"required,uuid"`
}

type AverageRatingResponse struct {
	CourseID      uuid.UUID `json:"courseId"`
	AverageRating float64   `json:"averageRating"`
}

type ReviewResponse struct {
	ID         uuid.UUID    `json:"id"`
	Rating     int          `json:"rating"`
	Review     string       `json:"review"`
	CourseID   uuid.UUID    `json:"course_id"`
	CourseName string       `json:"course_name"`
	User       ReviewAuthor `json:"user"`
	CreatedAt  time.Time    `json:"created_at"`
}

type ReviewAuthor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Image     string `json:"image"`
}
