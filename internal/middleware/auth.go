package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"contesthub/internal/domain"
	"contesthub/internal/modules/auth"
	"contesthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a bearer credential into a local user, provisioning
// first-time users. Implemented by the auth module's identity gate.
type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (*domain.User, error)
}

// Auth is the identity gate entrypoint for every protected route. The resolved
// user comes from the store keyed by the verified subject id; nothing from the
// client besides the credential itself is trusted.
func Auth(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		user, err := gate.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUnauthenticated):
				response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			case errors.Is(err, auth.ErrAdminMismatch):
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin identity mismatch")
			case errors.Is(err, auth.ErrBanned):
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "Account is banned")
			default:
				response.Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
			}
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))
		c.Set("user", user)

		c.Next()
	}
}

// CurrentUser returns the identity-gate-resolved user for this request.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok
}
