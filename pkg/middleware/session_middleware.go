package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"gifty/pkg/logger"
	"gifty/pkg/utils"
)

const SessionHeader = "X-Session-Token"

// SessionMiddleware requires a session token issued by POST /sessions, sent as a Bearer
// token or in X-Session-Token.
func SessionMiddleware(tokens *utils.SessionTokens, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(SessionHeader)
		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				utils.HandleServiceError(c, utils.ErrSessionRequired)
				return
			}
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			utils.HandleServiceError(c, err)
			return
		}

		c.Set(utils.SessionKey, claims.SessionID)
		if log != nil {
			c.Request = c.Request.WithContext(log.WithSessionID(c.Request.Context(), claims.SessionID))
		}
		c.Next()
	}
}
