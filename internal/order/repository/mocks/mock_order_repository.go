package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	if order != nil && args.Error(0) == nil && order.ID == "" {
		order.ID = "mock-order-id"
		order.Version = 1
	}
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if list := args.Get(0); list != nil {
		return list.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	if order != nil && args.Error(0) == nil {
		order.Version++
	}
	return args.Error(0)
}

func (m *MockOrderRepository) AddPayment(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	if payment != nil && args.Error(0) == nil && payment.ID == "" {
		payment.ID = "mock-payment-id"
	}
	return args.Error(0)
}

func (m *MockOrderRepository) DeletePayment(ctx context.Context, orderID, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func (m *MockOrderRepository) ListStaleRequestOrders(ctx context.Context, olderThan time.Duration) ([]domain.Order, error) {
	args := m.Called(ctx, olderThan)
	if list := args.Get(0); list != nil {
		return list.([]domain.Order), args.Error(1)
	}
	return nil, args.Error(1)
}
