package handler

import (
	"net/http"

	"anoa.com/eduelevate/internal/modules/enrollment/dto"
	"anoa.com/eduelevate/internal/modules/enrollment/repository"
	enrollment "anoa.com/eduelevate/internal/modules/enrollment/service"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	service enrollment.EnrollmentService
}

func NewEnrollmentHandler(service enrollment.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

func (h *EnrollmentHandler) UpdateCourseProgress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CourseProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	outcome, err := h.service.RecordLectureComplete(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	switch outcome {
	case repository.AlreadyComplete:
		response.Success(c, http.StatusOK, "lecture already completed", dto.CourseProgressResponse{Outcome: string(outcome)})
	case repository.CompletionCreated:
		response.Success(c, http.StatusCreated, "course progress created", dto.CourseProgressResponse{Outcome: string(outcome)})
	default:
		response.Success(c, http.StatusOK, "course progress updated", dto.CourseProgressResponse{Outcome: string(outcome)})
	}
}
