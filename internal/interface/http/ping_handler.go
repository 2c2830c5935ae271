package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Ping GET /api/ping — liveness endpoint, also the target of the keepalive job.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Ping Successful"})
}
