package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/finlitportal/finlit-backend/internal/response"
	"github.com/finlitportal/finlit-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
	// ContextKeyAuthenticated marks whether the request carried a valid token.
	ContextKeyAuthenticated = "authenticated"
)

// RequireAuth validates a JWT from the Authorization header and aborts
// with 401 when it is missing or invalid.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyAuthenticated, true)
		c.Next()
	}
}

// OptionalAuth records whether the request carries a valid JWT without
// rejecting anonymous callers. An invalid or expired token counts as
// anonymous, not as an error.
func OptionalAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractAndValidateClaims(c, authService)
		if err == nil {
			c.Set(ContextKeyClaims, claims)
			c.Set(ContextKeyAuthenticated, true)
		} else {
			c.Set(ContextKeyAuthenticated, false)
		}
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// IsAuthenticated reports whether OptionalAuth or RequireAuth accepted a
// token on this request.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextKeyAuthenticated)
}

func extractAndValidateClaims(c *gin.Context, authService *service.AuthService) (*service.Claims, error) {
	tokenStr := ""

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenStr = parts[1]
		}
	}

	if tokenStr == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	return authService.ValidateToken(tokenStr)
}
