package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/observability"
)

// RegisterHealthRoute exposes GET /health reporting the service health.
// Checkers are evaluated on every request.
func (s *Server) RegisterHealthRoute(service, version string, checkers ...observability.HealthChecker) {
	s.engine.GET("/health", func(c *gin.Context) {
		health := observability.NewServiceHealth(service, version)
		for _, checker := range checkers {
			health.AddComponent(checker.CheckHealth(c.Request.Context()))
		}

		status := http.StatusOK
		if health.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, health)
	})
}
