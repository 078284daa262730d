package middleware

import (
	"logistics-auth-service/internal/access"
	"logistics-auth-service/internal/logger"
	appErrors "logistics-auth-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireCapability must run after AuthMiddleware.
func RequireCapability(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortWithError(c, appErrors.ErrCredentialsRequired)
			return
		}

		if err := access.Authorize(principal.User, capability); err != nil {
			logger.Warn("Permission denied",
				zap.String("request_id", GetRequestID(c)),
				zap.String("user_id", principal.User.ID.String()),
				zap.String("capability", capability.String()),
				zap.String("path", c.Request.URL.Path),
				zap.String("event", "permission_denied"),
			)
			abortWithError(c, err)
			return
		}

		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RequireCapability(access.AdminOnly)
}

func DriverOnly() gin.HandlerFunc {
	return RequireCapability(access.DriverOnly)
}
