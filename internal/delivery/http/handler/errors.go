package handler

import (
	"net/http"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/logger"
	"logistics-auth-service/internal/middleware"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	if status := utils.AppErrorResponse(c, err); status >= http.StatusInternalServerError {
		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
	}
}

// bindJSON decodes and validates the body. It writes the 400 itself.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return validate(c, req)
}

func validate(c *gin.Context, req any) bool {
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithFields(c, http.StatusBadRequest, "Validation failed", utils.FieldErrors(err))
		return false
	}
	return true
}

// currentUser returns the authenticated user. Routes using it sit behind
// AuthMiddleware, so a miss is answered with 401.
func currentUser(c *gin.Context) (*domainUser.User, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication credentials were not provided")
		return nil, false
	}
	return principal.User, true
}

func uuidParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}
