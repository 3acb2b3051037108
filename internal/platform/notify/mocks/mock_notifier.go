package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyCustomer(ctx context.Context, phone, message string) error {
	args := m.Called(ctx, phone, message)
	return args.Error(0)
}

func (m *MockNotifier) NotifyAdmin(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
