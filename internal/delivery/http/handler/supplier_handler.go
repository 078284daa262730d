package handler

import (
	"net/http"
	"strconv"

	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/middleware"
	"logistics-auth-service/internal/usecase/supplier"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	service *supplier.Service
}

func NewSupplierHandler(service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{service: service}
}

func (h *SupplierHandler) RegisterRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/suppliers")
	{
		suppliers.GET("", h.List)
		suppliers.GET("/count", h.Count)
		suppliers.GET("/:id", h.Get)
		suppliers.GET("/:id/info", h.Info)
	}
}

// RegisterAdminRoutes expects router to already run AuthMiddleware.
func (h *SupplierHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	suppliers := router.Group("/suppliers")
	suppliers.Use(middleware.AdminOnly())
	{
		suppliers.POST("", h.Create)
		suppliers.PUT("/:id", h.Update)
		suppliers.DELETE("/:id", h.Delete)
	}
}

func activeFilter(c *gin.Context) (*bool, bool) {
	raw, present := c.GetQuery("active")
	if !present || raw == "" {
		return nil, true
	}
	active, err := strconv.ParseBool(raw)
	if err != nil {
		utils.ErrorResponseWithFields(c, http.StatusBadRequest, "Invalid query parameters", map[string]string{
			"active": "Must be true or false",
		})
		return nil, false
	}
	return &active, true
}

func (h *SupplierHandler) List(c *gin.Context) {
	active, ok := activeFilter(c)
	if !ok {
		return
	}

	suppliers, err := h.service.List(c.Request.Context(), active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Suppliers retrieved successfully", gin.H{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

func (h *SupplierHandler) Count(c *gin.Context) {
	active, ok := activeFilter(c)
	if !ok {
		return
	}

	count, err := h.service.Count(c.Request.Context(), active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Supplier count retrieved successfully", gin.H{"count": count})
}

func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid supplier ID")
	if !ok {
		return
	}

	s, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Supplier retrieved successfully", gin.H{"supplier": s})
}

func (h *SupplierHandler) Info(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid supplier ID")
	if !ok {
		return
	}

	s, err := h.service.Info(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Supplier retrieved successfully", gin.H{"supplier": s})
}

func (h *SupplierHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := bindRegister(c)
	if !ok {
		return
	}

	s, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Supplier created successfully", gin.H{"supplier": s})
}

func (h *SupplierHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid supplier ID")
	if !ok {
		return
	}

	var attrs domainUser.Attributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.service.Update(c.Request.Context(), actor, id, utils.SanitizeAttributes(attrs))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Supplier updated successfully", gin.H{"supplier": s})
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid supplier ID")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Supplier deleted successfully", nil)
}
