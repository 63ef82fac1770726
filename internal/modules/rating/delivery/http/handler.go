package handler

import (
	"net/http"

	"anoa.com/eduelevate/internal/modules/rating/dto"
	rating "anoa.com/eduelevate/internal/modules/rating/service"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RatingHandler struct {
	service rating.RatingService
}

func NewRatingHandler(service rating.RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.SubmitRating(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "rating and review created successfully", res)
}

func (h *RatingHandler) GetAverageRating(c *gin.Context) {
	var query dto.AverageRatingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	courseID := uuid.MustParse(query.CourseID)
	avg, err := h.service.AverageRating(c.Request.Context(), courseID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "average rating fetched successfully", dto.AverageRatingResponse{
		CourseID:      courseID,
		AverageRating: avg,
	})
}

func (h *RatingHandler) GetReviews(c *gin.Context) {
	res, err := h.service.GetAllRatings(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "all reviews fetched successfully", res)
}
