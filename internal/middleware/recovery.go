package middleware

import (
	"net/http"

	"logistics-auth-service/internal/logger"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryMiddleware turns a panic into the standard 500 body.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithRequestID(GetRequestID(c)).Error("Panic recovered",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Any("panic", recovered),
			zap.Stack("stack"),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}
