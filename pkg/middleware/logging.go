package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"gifty/pkg/logger"
	"gifty/pkg/utils"
)

// RequestLogger puts a trace-scoped logger on the request and logs one line per request.
// It must run after TraceIDMiddleware.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := log.WithTraceID(c.Request.Context(), c.GetString(utils.TraceIDKey))
		c.Request = c.Request.WithContext(ctx)
		c.Set(utils.LoggerKey, log)

		c.Next()

		status := c.Writer.Status()
		event := log.Zerolog(c.Request.Context()).Info()
		if status >= 500 {
			event = log.Zerolog(c.Request.Context()).Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	}
}
