package handlers

import (
	"net/http"

	"mayhouse/utils"

	"github.com/gin-gonic/gin"
)

// Version is reported by the welcome route.
const Version = "1.0.0"

// Welcome handles GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Mayhouse Backend",
		"version": Version,
		"health":  "/health",
	})
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Mayhouse Backend is running"})
}

// DatabaseHealth handles GET /health/database with the monitor's latest snapshot.
func DatabaseHealth(c *gin.Context) {
	status := utils.GetHealthStatus()
	if !status.Mongo {
		getLogger(c).Warn("Database health check failing")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "health": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "health": status})
}
