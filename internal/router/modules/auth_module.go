package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookwormhq/bookworm-api/internal/container"
	handlers "github.com/bookwormhq/bookworm-api/internal/interface/http"
	"github.com/bookwormhq/bookworm-api/internal/interface/middleware"
)

// AuthModule wires registration and login.
// Public: POST /api/auth/register, POST /api/auth/login

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits (no-op without redis)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
}
