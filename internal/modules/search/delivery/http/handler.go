package handler

import (
	"net/http"
	"strconv"
	"strings"

	search "anoa.com/eduelevate/internal/modules/search/service"
	"anoa.com/eduelevate/pkg/apperror"
	"anoa.com/eduelevate/pkg/response"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchService
}

func NewSearchHandler(service search.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) SearchCourses(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	hits, err := h.service.SearchCourses(c.Request.Context(), query, limit)
	if err != nil {
		response.ResponseError(c, apperror.New(http.StatusBadGateway, "search is unavailable", err))
		return
	}

	response.Success(c, http.StatusOK, "search results fetched", hits)
}

func (h *SearchHandler) SearchToken(c *gin.Context) {
	token, err := h.service.GenerateSearchToken()
	if err != nil {
		response.ResponseError(c, apperror.New(http.StatusBadGateway, "search is unavailable", err))
		return
	}

	response.Success(c, http.StatusOK, "search token generated", gin.H{"token": token})
}
