package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/bookwormhq/bookworm-api/internal/interface/http"
)

// PingModule exposes the liveness endpoint.
type PingModule struct{}

func (PingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}
