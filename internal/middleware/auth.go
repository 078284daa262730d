package middleware

import (
	"strings"

	"logistics-auth-service/internal/logger"
	"logistics-auth-service/internal/token"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	PrincipalKey = "principal"
	UserIDKey    = "userID"
	RoleKey      = "role"
)

// AuthMiddleware resolves the Authorization header through scheme and rejects
// the request before any handler runs when it cannot.
func AuthMiddleware(scheme token.Scheme) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, appErrors.ErrCredentialsRequired)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != scheme.Keyword() || strings.TrimSpace(parts[1]) == "" {
			abortWithError(c, appErrors.ErrInvalidAuthHeader)
			return
		}

		principal, err := scheme.Resolve(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Warn("Credential rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("event", "auth_rejected"),
				zap.Error(err),
			)
			abortWithError(c, err)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.User.ID)
		c.Set(RoleKey, principal.User.Role())

		c.Next()
	}
}

// GetPrincipal returns the principal stored by AuthMiddleware.
func GetPrincipal(c *gin.Context) (*token.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*token.Principal)
	return p, ok && p != nil && p.User != nil
}

func abortWithError(c *gin.Context, err error) {
	if status := utils.AppErrorResponse(c, err); status >= 500 {
		logger.Error("Internal server error",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}
	c.Abort()
}
