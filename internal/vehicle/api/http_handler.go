package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/middleware"
	"github.com/ewakoroyal/booking-api/internal/platform/validation"
	"github.com/ewakoroyal/booking-api/internal/vehicle/domain"
	"github.com/ewakoroyal/booking-api/internal/vehicle/repository"
	"github.com/ewakoroyal/booking-api/internal/vehicle/service"
)

type VehicleHandler struct {
	vehicleService service.VehicleService
}

func NewVehicleHandler(vs service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vs}
}

// RegisterRoutes: daftar kendaraan bisa dibaca semua pengguna login
// (dipakai form paket), mutasi hanya admin.
func (h *VehicleHandler) RegisterRoutes(router *gin.RouterGroup) {
	vehicleRoutes := router.Group("/vehicles")
	{
		vehicleRoutes.GET("", h.ListVehicles)
		vehicleRoutes.GET("/:id", h.GetVehicle)
		vehicleRoutes.POST("", middleware.RequireAdmin(), h.CreateVehicle)
		vehicleRoutes.PUT("/:id", middleware.RequireAdmin(), h.UpdateVehicle)
		vehicleRoutes.DELETE("/:id", middleware.RequireAdmin(), h.DeleteVehicle)
	}
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.ListVehicles(c.Request.Context())
	if err != nil {
		logger.Error("ListVehicles Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat daftar kendaraan."})
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondVehicleError(c, "GetVehicle", err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req domain.SaveVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), req)
	if err != nil {
		respondVehicleError(c, "CreateVehicle", err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	var req domain.SaveVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondVehicleError(c, "UpdateVehicle", err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		respondVehicleError(c, "DeleteVehicle", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondVehicleError(c *gin.Context, op string, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "errors": ve.Fields})
	case errors.Is(err, repository.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Kendaraan tidak ditemukan."})
	default:
		logger.Error(op+" Hdl: unhandled service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Terjadi kesalahan pada server. Silakan coba lagi."})
	}
}
