package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
	"github.com/ewakoroyal/booking-api/internal/order/repository"
	"github.com/ewakoroyal/booking-api/internal/order/service"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/middleware"
	"github.com/ewakoroyal/booking-api/internal/platform/validation"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(os service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.POST("", h.CreateOrder)
		orderRoutes.GET("", h.ListOrders)
		orderRoutes.GET("/:id", h.GetOrder)
		orderRoutes.PATCH("/:id/status", h.UpdateStatus)
		orderRoutes.PUT("/:id", h.UpdateData)
		orderRoutes.PUT("/:id/package-info", h.UpdatePackageInfo)
		orderRoutes.PUT("/:id/manifest", h.UpdateManifest)
		orderRoutes.POST("/:id/payments", middleware.RequireAdmin(), h.AddPayment)
		orderRoutes.DELETE("/:id/payments/:paymentId", middleware.RequireAdmin(), h.DeletePayment)
		orderRoutes.POST("/:id/admin-pricing", middleware.RequireAdmin(), h.AdminPricing)
	}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{UserID: middleware.AuthUserID(c), Admin: middleware.IsAdmin(c)}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req domain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondOrderError(c, "CreateOrder", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), actorFrom(c), c.Query("userId"))
	if err != nil {
		respondOrderError(c, "ListOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondOrderError(c, "GetOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	order, err := h.orderService.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondOrderError(c, "UpdateStatus", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateData(c *gin.Context) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	order, err := h.orderService.UpdateData(c.Request.Context(), actorFrom(c), c.Param("id"), raw)
	if err != nil {
		respondOrderError(c, "UpdateData", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdatePackageInfo(c *gin.Context) {
	var pi domain.PackageInfo
	if err := c.ShouldBindJSON(&pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	order, err := h.orderService.UpdatePackageInfo(c.Request.Context(), actorFrom(c), c.Param("id"), pi)
	if err != nil {
		respondOrderError(c, "UpdatePackageInfo", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateManifest(c *gin.Context) {
	var items []domain.ManifestItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	order, err := h.orderService.UpdateManifest(c.Request.Context(), actorFrom(c), c.Param("id"), items)
	if err != nil {
		respondOrderError(c, "UpdateManifest", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AddPayment(c *gin.Context) {
	var req domain.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	order, err := h.orderService.AddPayment(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		respondOrderError(c, "AddPayment", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) DeletePayment(c *gin.Context) {
	order, err := h.orderService.DeletePayment(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("paymentId"))
	if err != nil {
		respondOrderError(c, "DeletePayment", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) AdminPricing(c *gin.Context) {
	var details domain.AdminPriceDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	order, err := h.orderService.SetPriceAndDetails(c.Request.Context(), actorFrom(c), c.Param("id"), details)
	if err != nil {
		respondOrderError(c, "AdminPricing", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// respondOrderError memetakan error service/repository ke kode HTTP;
// setiap respons non-2xx membawa pesan + peta error field bila ada.
func respondOrderError(c *gin.Context, op string, err error) {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "errors": ve.Fields})
	case errors.Is(err, repository.ErrOrderNotFound), errors.Is(err, repository.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrOrderConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOrderLocked),
		errors.Is(err, service.ErrConfirmationNotAllowed),
		errors.Is(err, service.ErrPricingNotAllowed),
		errors.Is(err, service.ErrTerminalStatus),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(op+" Hdl: unhandled service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Terjadi kesalahan pada server. Silakan coba lagi."})
	}
}
