package dto

import "io"

// UploadFile is a file received from a multipart form, already opened by the handler.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

type CourseIDRequest struct {
	CourseID string `json:"courseId" form:"courseId" binding:"required,uuid"`
}

type CategoryIDRequest struct {
	CategoryID string `json:"categoryId" binding:"required,uuid"`
}
