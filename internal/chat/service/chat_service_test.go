package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ewakoroyal/booking-api/internal/chat/domain"
	"github.com/ewakoroyal/booking-api/internal/chat/repository/mocks"
	notifyMocks "github.com/ewakoroyal/booking-api/internal/platform/notify/mocks"
)

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.TODO()

	t.Run("Customer message notifies the admin", func(t *testing.T) {
		repo := new(mocks.MockChatRepository)
		notifier := new(notifyMocks.MockNotifier)
		svc := NewChatService(repo, notifier)

		repo.On("CreateMessage", ctx, mock.AnythingOfType("*domain.ChatMessage")).Return(nil).Once()
		notifier.On("NotifyAdmin", ctx, mock.MatchedBy(func(msg string) bool {
			return strings.Contains(msg, "H. Ahmad")
		})).Return(nil).Once()

		msg, err := svc.SendMessage(ctx, SendMessageInput{
			OrderID:    "order-1",
			SenderID:   "user-1",
			SenderName: "H. Ahmad",
			Text:       "  Assalamualaikum, kapan harga keluar?  ",
		})

		require.NoError(t, err)
		assert.Equal(t, "Assalamualaikum, kapan harga keluar?", msg.Text)
		assert.Equal(t, "H. Ahmad", msg.SenderName)
		notifier.AssertExpectations(t)
	})

	t.Run("Admin message uses the fixed sender label and skips notification", func(t *testing.T) {
		repo := new(mocks.MockChatRepository)
		notifier := new(notifyMocks.MockNotifier)
		svc := NewChatService(repo, notifier)

		repo.On("CreateMessage", ctx, mock.AnythingOfType("*domain.ChatMessage")).Return(nil).Once()

		msg, err := svc.SendMessage(ctx, SendMessageInput{
			OrderID:   "order-1",
			SenderID:  "admin-1",
			FromAdmin: true,
			Text:      "Harga sudah kami kirim ya.",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.AdminSenderName, msg.SenderName)
		notifier.AssertNotCalled(t, "NotifyAdmin", mock.Anything, mock.Anything)
	})

	t.Run("Empty message rejected", func(t *testing.T) {
		repo := new(mocks.MockChatRepository)
		svc := NewChatService(repo, new(notifyMocks.MockNotifier))

		_, err := svc.SendMessage(ctx, SendMessageInput{
			OrderID:  "order-1",
			SenderID: "user-1",
			Text:     "   ",
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})

	t.Run("Small image stored inline as data URL", func(t *testing.T) {
		repo := new(mocks.MockChatRepository)
		notifier := new(notifyMocks.MockNotifier)
		svc := NewChatService(repo, notifier)

		repo.On("CreateMessage", ctx, mock.AnythingOfType("*domain.ChatMessage")).Return(nil).Once()
		notifier.On("NotifyAdmin", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		msg, err := svc.SendMessage(ctx, SendMessageInput{
			OrderID:    "order-1",
			SenderID:   "user-1",
			SenderName: "H. Ahmad",
			Attachment: &Attachment{
				FileName:    "bukti-transfer.png",
				ContentType: "image/png",
				Data:        []byte{0x89, 0x50, 0x4e, 0x47},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "bukti-transfer.png", msg.FileName)
		assert.True(t, strings.HasPrefix(msg.FileDataURL, "data:image/png;base64,"))
	})

	t.Run("PDF keeps only name and type", func(t *testing.T) {
		repo := new(mocks.MockChatRepository)
		notifier := new(notifyMocks.MockNotifier)
		svc := NewChatService(repo, notifier)

		repo.On("CreateMessage", ctx, mock.AnythingOfType("*domain.ChatMessage")).Return(nil).Once()
		notifier.On("NotifyAdmin", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		msg, err := svc.SendMessage(ctx, SendMessageInput{
			OrderID:    "order-1",
			SenderID:   "user-1",
			SenderName: "H. Ahmad",
			Attachment: &Attachment{
				FileName:    "invoice.pdf",
				ContentType: "application/pdf",
				Data:        []byte("%PDF-1.7"),
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "application/pdf", msg.FileType)
		assert.Empty(t, msg.FileDataURL)
	})

	t.Run("Disallowed file type rejected", func(t *testing.T) {
		repo := new(mocks.MockChatRepository)
		svc := NewChatService(repo, new(notifyMocks.MockNotifier))

		_, err := svc.SendMessage(ctx, SendMessageInput{
			OrderID:  "order-1",
			SenderID: "user-1",
			Attachment: &Attachment{
				FileName:    "virus.exe",
				ContentType: "application/octet-stream",
			},
		})

		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	ctx := context.TODO()
	repo := new(mocks.MockChatRepository)
	svc := NewChatService(repo, new(notifyMocks.MockNotifier))

	history := []domain.ChatMessage{
		{ID: "m1", OrderID: "order-1", SenderID: "admin-1", Text: "Halo"},
		{ID: "m2", OrderID: "order-1", SenderID: "user-1", Text: "Halo juga"},
	}
	repo.On("ListMessagesByOrderID", ctx, "order-1").Return(history, nil).Once()
	// Pesan lawan bicara ditandai terbaca atas nama pembaca.
	repo.On("MarkMessagesRead", ctx, "order-1", "user-1").Return(nil).Once()

	messages, err := svc.ListMessages(ctx, "order-1", "user-1")

	require.NoError(t, err)
	assert.Len(t, messages, 2)
	repo.AssertExpectations(t)
}
