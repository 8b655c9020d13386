package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/pkg/httputil"
	"github.com/vertiguard/vertiguard-api/pkg/errors"
)

const contextAuthKey = "auth_context"

// TokenValidator resolves a bearer token into an AuthContext.
type TokenValidator interface {
	ValidateToken(token string) (*model.AuthContext, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Authenticate verifies the JWT token and stores the acting user's
// AuthContext in the request context. Data access fails closed: no
// valid session, no handler.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		authCtx, err := m.validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(contextAuthKey, authCtx)
		c.Next()
	}
}

// AuthFromContext returns the AuthContext set by Authenticate.
func AuthFromContext(c *gin.Context) (*model.AuthContext, bool) {
	v, ok := c.Get(contextAuthKey)
	if !ok {
		return nil, false
	}
	authCtx, ok := v.(*model.AuthContext)
	return authCtx, ok
}

// MustAuth is for handlers behind Authenticate: it aborts with 401 on
// the (unexpected) missing-context case instead of panicking.
func MustAuth(c *gin.Context) (*model.AuthContext, bool) {
	authCtx, ok := AuthFromContext(c)
	if !ok {
		httputil.RespondWithError(c, errors.Unauthorized(nil))
		c.Abort()
	}
	return authCtx, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, httputil.Response{
		Success: false,
		Error: &httputil.Error{
			Code:    http.StatusUnauthorized,
			Message: message,
		},
	})
	c.Abort()
}
