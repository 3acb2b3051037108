package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/middleware"
	"github.com/ewakoroyal/booking-api/internal/user/domain"
	"github.com/ewakoroyal/booking-api/internal/user/repository"
	"github.com/ewakoroyal/booking-api/internal/user/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(us service.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// RegisterPublicRoutes memasang endpoint yang tidak butuh token.
func (h *UserHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", h.Register)
		authRoutes.POST("/login", h.Login)
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	userRoutes := router.Group("/users")
	{
		userRoutes.GET("", middleware.RequireAdmin(), h.ListUsers)
		userRoutes.GET("/:id", h.GetUser)
		userRoutes.PUT("/:id", h.UpdateProfile)
		userRoutes.PATCH("/:id/status", middleware.RequireAdmin(), h.UpdateAccountStatus)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Register Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mendaftarkan akun. Silakan coba lagi."})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAccountPending), errors.Is(err, service.ErrAccountSuspended):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Login Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal masuk. Silakan coba lagi."})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error("ListUsers Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat daftar pengguna."})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	if !middleware.IsAdmin(c) && middleware.AuthUserID(c) != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "Anda tidak berhak melihat profil ini."})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan."})
			return
		}
		logger.Error("GetUser Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat profil."})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	if !middleware.IsAdmin(c) && middleware.AuthUserID(c) != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "Anda tidak berhak mengubah profil ini."})
		return
	}

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan."})
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("UpdateProfile Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui profil."})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateAccountStatus(c *gin.Context) {
	var req domain.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateAccountStatus(c.Request.Context(), c.Param("id"), req.AccountStatus)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan."})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("UpdateAccountStatus Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui status akun."})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}
