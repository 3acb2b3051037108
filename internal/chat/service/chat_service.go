package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/ewakoroyal/booking-api/internal/chat/domain"
	"github.com/ewakoroyal/booking-api/internal/chat/repository"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/notify"
	"github.com/ewakoroyal/booking-api/internal/platform/validation"
)

var ErrAttachmentTooLarge = errors.New("attachment exceeds the maximum allowed size")

// Lampiran gambar di bawah batas ini disimpan sebagai data URL untuk
// preview; selebihnya hanya nama + tipe.
const maxInlineAttachment = 1 << 20 // 1 MiB

var allowedFileTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

type SendMessageInput struct {
	OrderID    string
	SenderID   string
	SenderName string
	FromAdmin  bool
	Text       string
	Attachment *Attachment
}

type ChatService interface {
	ListMessages(ctx context.Context, orderID, readerID string) ([]domain.ChatMessage, error)
	SendMessage(ctx context.Context, in SendMessageInput) (*domain.ChatMessage, error)
}

type chatService struct {
	repo     repository.ChatRepository
	notifier notify.Notifier
}

func NewChatService(repo repository.ChatRepository, notifier notify.Notifier) ChatService {
	return &chatService{repo: repo, notifier: notifier}
}

// ListMessages mengembalikan riwayat kronologis dan menandai pesan lawan
// bicara sebagai terbaca; klien mem-poll endpoint ini.
func (s *chatService) ListMessages(ctx context.Context, orderID, readerID string) ([]domain.ChatMessage, error) {
	messages, err := s.repo.ListMessagesByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkMessagesRead(ctx, orderID, readerID); err != nil {
		logger.Error("ListMessages: failed to mark messages read", err)
	}
	return messages, nil
}

func (s *chatService) SendMessage(ctx context.Context, in SendMessageInput) (*domain.ChatMessage, error) {
	msg := &domain.ChatMessage{
		OrderID:    in.OrderID,
		SenderID:   in.SenderID,
		SenderName: in.SenderName,
		Text:       strings.TrimSpace(in.Text),
	}
	if in.FromAdmin {
		msg.SenderName = domain.AdminSenderName
	}

	if in.Attachment != nil {
		ve := validation.NewError("Lampiran tidak valid.")
		if !allowedFileTypes[in.Attachment.ContentType] {
			ve.Add("file", "tipe file harus JPEG, PNG, atau PDF")
		}
		if err := ve.OrNil(); err != nil {
			return nil, err
		}
		msg.FileName = in.Attachment.FileName
		msg.FileType = in.Attachment.ContentType
		if strings.HasPrefix(in.Attachment.ContentType, "image/") && len(in.Attachment.Data) < maxInlineAttachment {
			msg.FileDataURL = fmt.Sprintf("data:%s;base64,%s",
				in.Attachment.ContentType, base64.StdEncoding.EncodeToString(in.Attachment.Data))
		}
	}

	if !msg.HasContent() {
		ve := validation.NewError("Pesan kosong.")
		ve.Add("text", "pesan harus berisi teks atau lampiran")
		return nil, ve
	}

	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// Beri tahu admin ada chat baru dari pelanggan; arah sebaliknya
	// cukup lewat polling aplikasi.
	if !in.FromAdmin {
		preview := msg.Text
		if preview == "" {
			preview = "File: " + msg.FileName
		}
		note := fmt.Sprintf("Chat baru dari %s (pesanan %s): %s", msg.SenderName, shortID(in.OrderID), preview)
		if err := s.notifier.NotifyAdmin(ctx, note); err != nil {
			logger.Error("SendMessage: failed to notify admin", err)
		}
	}
	return msg, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
