package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"anoa.com/eduelevate/internal/entity"
	"anoa.com/eduelevate/pkg/authtoken"
	"anoa.com/eduelevate/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	TokenCookie = "token"

	maxTokenBodyBytes = 1 << 20
)

type AuthMiddleware struct {
	tokens *authtoken.Manager
}

func NewAuthMiddleware(tokens *authtoken.Manager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth accepts the token from the Authorization header, the "token" cookie or a
// "token" field in a JSON body, in that order.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.Fail(c, http.StatusUnauthorized, "token is missing")
			c.Abort()
			return
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, "token is invalid or expired")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("account_type", claims.AccountType)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountType, exists := c.Get("account_type")
		if !exists {
			response.Fail(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		if accountType != role {
			response.Fail(c, http.StatusForbidden, "this is a protected route for "+role+"s only")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return m.RequireRole(entity.AccountStudent)
}

func (m *AuthMiddleware) RequireInstructor() gin.HandlerFunc {
	return m.RequireRole(entity.AccountInstructor)
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(entity.AccountAdmin)
}

func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "" {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	return tokenFromBody(c)
}

// tokenFromBody scans the top-level keys of a JSON body for "token". Only the
// first maxTokenBodyBytes are scanned; the handler always gets the full body back.
func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		return ""
	}

	var consumed bytes.Buffer
	dec := json.NewDecoder(io.TeeReader(io.LimitReader(c.Request.Body, maxTokenBodyBytes), &consumed))
	token := scanToken(dec)
	c.Request.Body = io.NopCloser(io.MultiReader(&consumed, c.Request.Body))

	return token
}

func scanToken(dec *json.Decoder) string {
	if t, err := dec.Token(); err != nil || t != json.Delim('{') {
		return ""
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return ""
		}
		if key == "token" {
			var token string
			if err := dec.Decode(&token); err != nil {
				return ""
			}
			return token
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return ""
		}
	}
	return ""
}
