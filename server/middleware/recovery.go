package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit/logger"
)

// Recovery returns middleware that recovers from panics, logs the stack,
// and responds with a generic 500 payload.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				if log == nil {
					log = logger.GetGlobalLogger()
				}
				log.Error("Panic recovered", map[string]interface{}{
					"panic": r,
					"path":  c.Request.URL.Path,
					"stack": string(debug.Stack()),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}
