package handler

import (
	"net/http"
	"time"

	"anoa.com/eduelevate/internal/middleware"
	"anoa.com/eduelevate/internal/modules/user/dto"
	auth "anoa.com/eduelevate/internal/modules/user/service"
	"anoa.com/eduelevate/pkg/response"
	"anoa.com/eduelevate/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service      auth.AuthService
	secureCookie bool
}

func NewAuthHandler(service auth.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookie: secureCookie}
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.service.SendOTP(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "OTP sent successfully", nil)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "user registered successfully", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, res.Token, maxAge, "/", "", h.secureCookie, true)

	response.Success(c, http.StatusOK, "user login success", res)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "password updated successfully", nil)
}

func (h *AuthHandler) ResetPasswordToken(c *gin.Context) {
	var req dto.ResetPasswordTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.service.ResetPasswordToken(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "email sent successfully, please check your email to continue further", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, validator.FormatValidationError(err))
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "password reset successful", nil)
}
