package handler

import (
	"net/http"

	"logistics-auth-service/internal/usecase/user"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

func (h *UserHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.service.ListDrivers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Drivers retrieved successfully", gin.H{
		"drivers": drivers,
		"count":   len(drivers),
	})
}

func (h *UserHandler) GetDriverByVehicle(c *gin.Context) {
	driver, err := h.service.GetDriverByVehicle(c.Request.Context(), c.Query("vehicle_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver retrieved successfully", gin.H{
		"driver": driver,
	})
}

func (h *UserHandler) UpdateDriverVehicle(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}

	var req user.VehicleRequest
	if !bindJSON(c, &req) {
		return
	}

	driver, err := h.service.UpdateDriverVehicle(c.Request.Context(), actor, utils.SanitizeString(req.VehicleID))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle updated successfully", gin.H{
		"driver": driver,
	})
}
