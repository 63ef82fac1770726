package dto

import (
	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
)

// CreateCourseRequest is bound from multipart/form-data; tag and instructions hold JSON arrays.
type CreateCourseRequest struct {
	CourseName        string   `form:"courseName" binding:"required,max=200"`
	CourseDescription string   `form:"courseDescription" binding:"required"`
	WhatYouWillLearn  string   `form:"whatYouWillLearn" binding:"required"`
	Price             *float64 `form:"price" binding:"required,min=0"`
	Tag               string   `form:"tag" binding:"required"`
	Category          string   `form:"category" binding:"required,uuid"`
	Status            string   `form:"status" binding:"omitempty,oneof=Draft Published"`
	Instructions      string   `form:"instructions" binding:"required"`
}

type EditCourseRequest struct {
	CourseID          string   `form:"courseId" binding:"required,uuid"`
	CourseName        *string  `form:"courseName" binding:"omitempty,max=200"`
	CourseDescription *string  `form:"courseDescription"`
	WhatYouWillLearn  *string  `form:"whatYouWillLearn"`
	Price             *float64 `form:"price" binding:"omitempty,min=0"`
	Tag               *string  `form:"tag"`
	Category          *string  `form:"category" binding:"omitempty,uuid"`
	Status            *string  `form:"status" binding:"omitempty,oneof=Draft Published"`
	Instructions      *string  `form:"instructions"`
}

type CourseSummary struct {
	ID               uuid.UUID    `json:"id"`
	CourseName       string       `json:"course_name"`
	Price            float64      `json:"price"`
	Thumbnail        string       `json:"thumbnail"`
	Tags             []string     `json:"tags"`
	CategoryID       uuid.UUID    `json:"category_id"`
	Instructor       *entity.User `json:"instructor"`
	StudentsEnrolled int64        `json:"students_enrolled"`
}

type CourseDetailsResponse struct {
	CourseDetails *entity.Course `json:"courseDetails"`
	TotalDuration string         `json:"totalDuration"`
}

type FullCourseDetailsResponse struct {
	CourseDetailsResponse
	CompletedVideos []uuid.UUID `json:"completedVideos"`
}

type CreateSectionRequest struct {
	SectionName string `json:"sectionName" binding:"required,max=200"`
	CourseID    string `json:"courseId" binding:"required,uuid"`
}

type UpdateSectionRequest struct {
	SectionName string `json:"sectionName" binding:"required,max=200"`
	SectionID   string `json:"sectionId" binding:"required,uuid"`
	CourseID    string `json:"courseId" binding:"required,uuid"`
}

type DeleteSectionRequest struct {
	SectionID string `json:"sectionId" binding:"required,uuid"`
	CourseID  string `json:"courseId" binding:"required,uuid"`
}

type CreateSubSectionRequest struct {
	SectionID    string `form:"sectionId" binding:"required,uuid"`
	Title        string `form:"title" binding:"required,max=200"`
	Description  string `form:"description" binding:"required"`
	TimeDuration string `form:"timeDuration"`
}

type UpdateSubSectionRequest struct {
	SubSectionID string  `form:"subSectionId" binding:"required,uuid"`
	SectionID    string  `form:"sectionId" binding:"required,uuid"`
	Title        *string `form:"title" binding:"omitempty,max=200"`
	Description  *string `form:"description"`
	TimeDuration *string `form:"timeDuration"`
}

type DeleteSubSectionRequest struct {
	SubSectionID string `json:"subSectionId" binding:"required,uuid"`
	SectionID    string `json:"sectionId" binding:"required,uuid"`
}
