package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// userIDHeader carries the acting user's identity, asserted by the upstream
// identity layer. The service trusts the header; authentication itself lives
// outside this process.
const userIDHeader = "X-User-ID"

// IdentityMiddleware creates a Gin middleware handler that requires the
// X-User-ID header and stores the identity in the request context. Requests
// without one are rejected: every mutating operation needs an actor for its
// audit trail.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID := strings.TrimSpace(c.GetHeader(userIDHeader))
		if userID == "" {
			logger.Warn("Identity header missing", slog.String("header", userIDHeader))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": userIDHeader + " header required"})
			return
		}

		// Store the user ID in the standard context
		ctxWithUser := context.WithValue(c.Request.Context(), userIDKey, userID)

		// Add user ID to the logger and store the enriched logger back
		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctxWithLoggerAndUser := context.WithValue(ctxWithUser, loggerKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctxWithLoggerAndUser)
		c.Set(string(userIDKey), userID)

		c.Next()
	}
}
