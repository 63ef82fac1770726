package handler

import (
	"net/http"

	"anoa.com/eduelevate/internal/modules/category/dto"
	category "anoa.com/eduelevate/internal/modules/category/service"
	commonDto "anoa.com/eduelevate/pkg/dto"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "category created successfully", res)
}

func (h *CategoryHandler) ShowAllCategories(c *gin.Context) {
	res, err := h.service.ShowAllCategories(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "categories fetched successfully", res)
}

func (h *CategoryHandler) CategoryPageDetails(c *gin.Context) {
	var req commonDto.CategoryIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.CategoryPageDetails(c.Request.Context(), uuid.MustParse(req.CategoryID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "category page details fetched successfully", res)
}
