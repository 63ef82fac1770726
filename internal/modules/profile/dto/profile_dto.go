package dto

import (
	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FirstName     *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName      *string `json:"lastName" binding:"omitempty,max=100"`
	DateOfBirth   *string `json:"dateOfBirth" binding:"omitempty,max=20"`
	About         *string `json:"about" binding:"omitempty,max=2000"`
	ContactNumber *string `json:"contactNumber" binding:"omitempty,max=20"`
	Gender        *string `json:"gender" binding:"omitempty,max=20"`
}

type EnrolledCourse struct {
	entity.Course
	TotalDuration      string `json:"totalDuration"`
	ProgressPercentage int    `json:"progressPercentage"`
}

type InstructorCourseStats struct {
	ID                    uuid.UUID `json:"_id"`
	CourseName            string    `json:"courseName"`
	CourseDescription     string    `json:"courseDescription"`
	TotalStudentsEnrolled int64     `json:"totalStudentsEnrolled"`
	TotalAmountGenerated  float64   `json:"totalAmountGenerated"`
}
