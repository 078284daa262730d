package middleware

import (
	"time"

	"logistics-auth-service/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware writes one line when a request arrives and one when it
// completes. The Authorization header is never logged.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		ip := c.ClientIP()

		log := logger.WithRequestID(GetRequestID(c))

		log.Info("Incoming request",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("ip", ip),
			zap.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.String("route", c.FullPath()),
			zap.String("ip", ip),
			zap.Int("status_code", statusCode),
			zap.Duration("latency", time.Since(start)),
		}

		if principal, ok := GetPrincipal(c); ok {
			fields = append(fields,
				zap.String("user_id", principal.User.ID.String()),
				zap.Int("role_id", int(principal.User.Role())),
			)
		}
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			fields = append(fields, zap.String("error", errorMessage))
		}

		switch {
		case statusCode >= 500:
			log.Error("Request completed with server error", fields...)
		case statusCode >= 400:
			log.Warn("Request completed with client error", fields...)
		default:
			log.Info("Request completed successfully", fields...)
		}
	}
}
