package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craftside/portal-api/internal/logger"
)

const (
	CorrelationIDHeader = "X-Correlation-ID"
	correlationIDKey    = "correlationID"
)

type correlationContextKey struct{}

// CorrelationID ensures every request carries a correlation id, generating
// one when the caller did not supply it, and logs request completion.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(correlationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), correlationContextKey{}, correlationID))

		start := time.Now()
		c.Next()

		if logger.Log != nil {
			logger.Log.Info("Request completed",
				zap.String("correlation_id", correlationID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", c.ClientIP()),
			)
		}
	}
}

// GetCorrelationID returns the request's correlation id, or empty string.
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(correlationIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// CorrelationIDFromContext extracts the correlation id from a context.
func CorrelationIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(correlationContextKey{}).(string); ok {
		return s
	}
	return ""
}
