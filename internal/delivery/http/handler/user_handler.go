package handler

import (
	"net/http"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/middleware"
	"logistics-auth-service/internal/usecase/user"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// registerFields are the top level keys RegisterRequest already maps. Any
// other top level key is treated as role data.
var registerFields = map[string]struct{}{
	"username":   {},
	"email":      {},
	"password":   {},
	"first_name": {},
	"last_name":  {},
	"phone":      {},
	"role_id":    {},
	"role_data":  {},
}

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the unauthenticated auth endpoints. They carry their
// own stricter rate limit.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.Use(limit)
	{
		auth.POST("/register", h.Register)
		auth.POST("/register/supplier", h.RegisterSupplier)
		auth.POST("/register/vendor", h.RegisterVendor)
		auth.POST("/login", h.Login)
		auth.POST("/password/reset", h.RequestPasswordReset)
		auth.POST("/password/reset/confirm/:uidb64/:token", h.ConfirmPasswordReset)
	}
}

func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.GetProfile)
		auth.PUT("/me", h.UpdateProfile)
		auth.POST("/password/change", h.ChangePassword)

		auth.GET("/drivers", h.ListDrivers)
		auth.GET("/drivers/vehicle", h.GetDriverByVehicle)
		auth.PUT("/drivers/vehicle", middleware.DriverOnly(), h.UpdateDriverVehicle)
	}
}

func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/auth/admin")
	{
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:user_id", h.AdminUpdateUser)
		admin.DELETE("/users/:user_id", h.AdminDeleteUser)
	}
}

// bindRegister decodes a registration body. Role fields may be sent inside
// role_data or at the top level; role_data wins on conflict.
func bindRegister(c *gin.Context) (*user.RegisterRequest, bool) {
	var req user.RegisterRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	var raw map[string]any
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}

	if req.RoleData == nil {
		req.RoleData = domainUser.Attributes{}
	}
	for key, value := range raw {
		if _, mapped := registerFields[key]; mapped {
			continue
		}
		if !req.RoleData.Has(key) {
			req.RoleData[key] = value
		}
	}
	req.RoleData = utils.SanitizeAttributes(req.RoleData)

	req.Username = utils.SanitizeIdentifier(req.Username)
	req.Email = utils.SanitizeEmail(req.Email)
	req.FirstName = utils.SanitizeString(req.FirstName)
	req.LastName = utils.SanitizeString(req.LastName)
	if req.Phone != nil {
		sanitized := utils.SanitizePhone(*req.Phone)
		req.Phone = &sanitized
	}

	if !validate(c, &req) {
		return nil, false
	}
	return &req, true
}

func (h *UserHandler) Register(c *gin.Context) {
	req, ok := bindRegister(c)
	if !ok {
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "User registered successfully", gin.H{
		"user_id": u.ID,
	})
}

func (h *UserHandler) RegisterSupplier(c *gin.Context) {
	h.registerWithRole(c, domainUser.RoleSupplier)
}

func (h *UserHandler) RegisterVendor(c *gin.Context) {
	h.registerWithRole(c, domainUser.RoleVendor)
}

func (h *UserHandler) registerWithRole(c *gin.Context, role domainUser.Role) {
	req, ok := bindRegister(c)
	if !ok {
		return
	}

	authResponse, err := h.service.RegisterWithRole(c.Request.Context(), req, role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, role.Name()+" registered successfully", gin.H{
		"token":      authResponse.Token,
		"expires_at": authResponse.ExpiresAt,
		"user":       authResponse.User,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = utils.SanitizeIdentifier(req.Username)
	req.Email = utils.SanitizeEmail(req.Email)

	authResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"token":      authResponse.Token,
		"expires_at": authResponse.ExpiresAt,
		"user":       authResponse.User,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication credentials were not provided")
		return
	}

	if err := h.service.Logout(c.Request.Context(), principal); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Successfully logged out", nil)
}
