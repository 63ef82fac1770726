package dto

import (
	"anoa.com/eduelevate/internal/entity"
	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
}

type CategoryWithCourses struct {
	CategoryResponse
	Courses []entity.Course `json:"courses"`
}

type SellingCourse struct {
	entity.Course
	StudentsEnrolled int64 `json:"students_enrolled"`
}

type CategoryPageResponse struct {
	SelectedCategory   CategoryWithCourses  `json:"selectedCategory"`
	DifferentCategory  *CategoryWithCourses `json:"differentCategory"`
	MostSellingCourses []SellingCourse      `json:"mostSellingCourses"`
}
