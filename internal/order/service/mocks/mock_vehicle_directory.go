package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ewakoroyal/booking-api/internal/vehicle/domain"
)

type MockVehicleDirectory struct {
	mock.Mock
}

func (m *MockVehicleDirectory) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}
