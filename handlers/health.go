package handlers

import (
	"net/http"
	"time"

	"vexstorm/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health. Dependency results come from the last
// background snapshot; monitor may be nil.
func HealthHandler(serviceName string, monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		}
		if monitor != nil {
			body["dependencies"] = monitor.Status().Dependencies
		}
		c.JSON(http.StatusOK, body)
	}
}
