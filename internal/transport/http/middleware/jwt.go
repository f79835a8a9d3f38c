package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blogpress/internal/model"
	"blogpress/internal/pkg/jwtutil"
	"blogpress/internal/repository"
	"blogpress/internal/transport/http/response"
)

const ContextUserKey = "auth_user"

// AuthJWT guards protected routes. It extracts the bearer token, verifies
// signature and expiry, then resolves the identity against the database so a
// token for a since-deleted user is rejected. The resolved user is attached
// to the request context for downstream handlers.
//
// Clients see one uniform 401 for expired, malformed and tampered tokens.
func AuthJWT(secret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "you need to log in first")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, "you need to log in first")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.GetByEmail(claims.Email)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "internal server error")
			c.Abort()
			return
		}
		if user == nil {
			response.Error(c, http.StatusUnauthorized, "user not found")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the identity attached by AuthJWT.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
