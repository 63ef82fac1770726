package handler

import (
	"errors"
	"net/http"

	"anoa.com/eduelevate/internal/modules/payment/dto"
	payment "anoa.com/eduelevate/internal/modules/payment/service"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service payment.PaymentService
}

func NewPaymentHandler(service payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) CapturePayment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "order created successfully", order)
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusOK, "Payment failed")
		return
	}

	if err := h.service.VerifyAndCapture(c.Request.Context(), userID, req); err != nil {
		if errors.Is(err, payment.ErrPaymentFailed) {
			response.Fail(c, http.StatusOK, "Payment failed")
			return
		}
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "payment verified", nil)
}

func (h *PaymentHandler) SendPaymentSuccessEmail(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.PaymentSuccessEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.service.SendPaymentSuccessEmail(c.Request.Context(), userID, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "payment success email sent", nil)
}
