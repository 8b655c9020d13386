package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeoutConfig struct {
	Duration time.Duration
}

// Timeout bounds each request's context. Downstream calls to the
// database and the inference gateway inherit the deadline, which is
// how the monitoring cycle turns a hung gateway into a
// ClassificationUnavailable instead of waiting forever.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	if config.Duration == 0 {
		config.Duration = 30 * time.Second
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
