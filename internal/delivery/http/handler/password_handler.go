package handler

import (
	"errors"
	"net/http"

	"logistics-auth-service/internal/logger"
	"logistics-auth-service/internal/middleware"
	"logistics-auth-service/internal/usecase/user"
	appErrors "logistics-auth-service/pkg/errors"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const resetRequestedMessage = "If an account exists with this email, a password reset link has been sent"

// RequestPasswordReset answers every well-formed request with the same body,
// including storage failures, so that account existence cannot be probed.
func (h *UserHandler) RequestPasswordReset(c *gin.Context) {
	var req user.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = utils.SanitizeEmail(req.Email)

	if err := h.service.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) && appErr.Code == appErrors.CodeValidation {
			respondWithError(c, err)
			return
		}
		logger.Error("Password reset request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}

	utils.SuccessResponse(c, http.StatusOK, resetRequestedMessage, nil)
}

func (h *UserHandler) ConfirmPasswordReset(c *gin.Context) {
	var req user.ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.ConfirmPasswordReset(c.Request.Context(), c.Param("uidb64"), c.Param("token"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password has been reset successfully", nil)
}
