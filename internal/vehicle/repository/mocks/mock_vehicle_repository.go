package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ewakoroyal/booking-api/internal/vehicle/domain"
)

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if list := args.Get(0); list != nil {
		return list.([]domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVehicleRepository) GetVehicleByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVehicleRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	if v != nil && args.Error(0) == nil && v.ID == "" {
		v.ID = "mock-vehicle-id"
	}
	return args.Error(0)
}

func (m *MockVehicleRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
