package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitlog-app/fitlog/internal/store"
)

// Handler reports service liveness and Redis reachability.
func Handler(s *store.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		redisStatus := "ok"
		code := http.StatusOK
		if err := s.Ping(c.Request.Context()); err != nil {
			status = "degraded"
			redisStatus = "unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
