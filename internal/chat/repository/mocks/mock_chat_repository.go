package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ewakoroyal/booking-api/internal/chat/domain"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) ListMessagesByOrderID(ctx context.Context, orderID string) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, orderID)
	if list := args.Get(0); list != nil {
		return list.([]domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	if msg != nil && args.Error(0) == nil && msg.ID == "" {
		msg.ID = "mock-message-id"
	}
	return args.Error(0)
}

func (m *MockChatRepository) MarkMessagesRead(ctx context.Context, orderID, readerID string) error {
	args := m.Called(ctx, orderID, readerID)
	return args.Error(0)
}
