package response

import (
	"net/http"

	"anoa.com/eduelevate/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Body is the envelope every endpoint answers with.
type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	str, ok := userIDStr.(string)
	if !ok {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Body{Success: true, Message: message, Data: data})
}

// Fail answers with a declared failure that is not backed by an error value.
func Fail(c *gin.Context, code int, message string) {
	c.JSON(code, Body{Success: false, Message: message})
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	message := err.Error()
	if code >= http.StatusInternalServerError && code != http.StatusBadGateway {
		zap.L().Error("internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "something went wrong, please try again"
	}

	c.JSON(code, Body{Success: false, Message: message})
}
