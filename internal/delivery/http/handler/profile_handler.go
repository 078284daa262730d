package handler

import (
	"net/http"

	"logistics-auth-service/internal/usecase/user"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), u)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", gin.H{
		"user": profile,
	})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.FirstName != nil {
		sanitized := utils.SanitizeString(*req.FirstName)
		req.FirstName = &sanitized
	}
	if req.LastName != nil {
		sanitized := utils.SanitizeString(*req.LastName)
		req.LastName = &sanitized
	}
	if req.Username != nil {
		sanitized := utils.SanitizeIdentifier(*req.Username)
		req.Username = &sanitized
	}
	req.RoleData = utils.SanitizeAttributes(req.RoleData)

	profile, err := h.service.UpdateProfile(c.Request.Context(), u, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile updated successfully", gin.H{
		"user": profile,
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), u, &req); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}
