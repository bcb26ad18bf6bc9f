package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gifty/pkg/utils"
)

const TraceHeader = "X-Trace-ID"

func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set(utils.TraceIDKey, traceID)
		c.Writer.Header().Set(TraceHeader, traceID)
		c.Next()
	}
}
