package dto

type CourseProgressRequest struct {
	CourseID     string `json:"courseId" binding:"required,uuid"`
	SubSectionID string `json:"subsectionId" binding:"required,uuid"`
}

type CourseProgressResponse struct {
	Outcome string `json:"outcome"`
}
