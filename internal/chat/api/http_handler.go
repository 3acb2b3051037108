package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	chatservice "github.com/ewakoroyal/booking-api/internal/chat/service"
	orderrepo "github.com/ewakoroyal/booking-api/internal/order/repository"
	orderservice "github.com/ewakoroyal/booking-api/internal/order/service"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/middleware"
	"github.com/ewakoroyal/booking-api/internal/platform/validation"
	userservice "github.com/ewakoroyal/booking-api/internal/user/service"
)

// Batas upload lampiran chat.
const maxUploadBytes = 5 << 20 // 5 MiB

type ChatHandler struct {
	chatService  chatservice.ChatService
	orderService orderservice.OrderService
	userService  userservice.UserService
}

func NewChatHandler(cs chatservice.ChatService, os orderservice.OrderService, us userservice.UserService) *ChatHandler {
	return &ChatHandler{chatService: cs, orderService: os, userService: us}
}

func (h *ChatHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders/:id/chat", h.ListMessages)
	router.POST("/orders/:id/chat", h.SendMessage)
}

// authorize memastikan pemanggil adalah admin atau pemilik pesanan;
// GetOrder sudah menegakkan aturan itu.
func (h *ChatHandler) authorize(c *gin.Context, orderID string) bool {
	actor := orderservice.Actor{UserID: middleware.AuthUserID(c), Admin: middleware.IsAdmin(c)}
	if _, err := h.orderService.GetOrder(c.Request.Context(), actor, orderID); err != nil {
		switch {
		case errors.Is(err, orderrepo.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pesanan tidak ditemukan."})
		case errors.Is(err, orderservice.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Anda tidak berhak mengakses chat pesanan ini."})
		default:
			logger.Error("Chat authorize: failed to load order", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Terjadi kesalahan pada server. Silakan coba lagi."})
		}
		return false
	}
	return true
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	orderID := c.Param("id")
	if !h.authorize(c, orderID) {
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), orderID, middleware.AuthUserID(c))
	if err != nil {
		logger.Error("ListMessages Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memuat riwayat chat."})
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage menerima JSON {"text": ...} atau multipart form dengan
// field `text` dan/atau file `file`.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	orderID := c.Param("id")
	if !h.authorize(c, orderID) {
		return
	}

	in := chatservice.SendMessageInput{
		OrderID:   orderID,
		SenderID:  middleware.AuthUserID(c),
		FromAdmin: middleware.IsAdmin(c),
	}

	if !in.FromAdmin {
		user, err := h.userService.GetUser(c.Request.Context(), in.SenderID)
		if err != nil {
			logger.Error("SendMessage Hdl: failed to load sender", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengirim pesan."})
			return
		}
		in.SenderName = user.Name
	}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.Text = c.PostForm("text")
		fileHeader, err := c.FormFile("file")
		if err == nil {
			if fileHeader.Size > maxUploadBytes {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": chatservice.ErrAttachmentTooLarge.Error()})
				return
			}
			f, err := fileHeader.Open()
			if err != nil {
				logger.Error("SendMessage Hdl: failed to open upload", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "Lampiran tidak bisa dibaca."})
				return
			}
			defer f.Close()
			data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
			if err != nil {
				logger.Error("SendMessage Hdl: failed to read upload", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "Lampiran tidak bisa dibaca."})
				return
			}
			in.Attachment = &chatservice.Attachment{
				FileName:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Data:        data,
			}
		}
	} else {
		var body struct {
			Text string `json:"text"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
			return
		}
		in.Text = body.Text
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), in)
	if err != nil {
		var ve *validation.Error
		switch {
		case errors.As(err, &ve):
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "errors": ve.Fields})
		case errors.Is(err, chatservice.ErrAttachmentTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		default:
			logger.Error("SendMessage Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengirim pesan."})
		}
		return
	}
	c.JSON(http.StatusCreated, msg)
}
