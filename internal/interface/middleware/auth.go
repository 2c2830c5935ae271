package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	repo "github.com/bookwormhq/bookworm-api/internal/domain/repository"
	"github.com/bookwormhq/bookworm-api/pkg/helpers"
	"github.com/bookwormhq/bookworm-api/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUserNameKey = "userName"
)

// Auth validates a Bearer token and resolves it to a live user record.
// Every failure mode (missing header, bad signature, expiry, deleted user)
// aborts with the same 401 so callers cannot tell the cases apart. On
// success the resolved identity is attached to the Gin context.
func Auth(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error[any](c, http.StatusUnauthorized, "no token provided, access denied", nil)
			c.Abort()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "token invalid, access denied", nil)
			c.Abort()
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "token invalid, access denied", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserNameKey, u.Username)
		c.Next()
	}
}
