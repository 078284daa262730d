package handler

import (
	"net/http"

	"logistics-auth-service/internal/usecase/user"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var q user.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	list, err := h.service.ListUsers(c.Request.Context(), actor, &q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", gin.H{
		"users":      list.Users,
		"pagination": list.Pagination,
	})
}

func (h *UserHandler) AdminUpdateUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	var req user.AdminUpdateRequest
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
	req.RoleData = utils.SanitizeAttributes(req.RoleData)

	profile, err := h.service.AdminUpdateUser(c.Request.Context(), actor, targetID, &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", gin.H{
		"user": profile,
	})
}

func (h *UserHandler) AdminDeleteUser(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	targetID, ok := uuidParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	if err := h.service.AdminDeleteUser(c.Request.Context(), actor, targetID); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
