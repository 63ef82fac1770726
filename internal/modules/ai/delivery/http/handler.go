package handler

import (
	"net/http"

	"anoa.com/eduelevate/internal/modules/ai/dto"
	ai "anoa.com/eduelevate/internal/modules/ai/service"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service ai.ChatService
}

func NewChatHandler(service ai.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Chat(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "reply generated", res)
}
