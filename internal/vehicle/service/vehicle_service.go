package service

import (
	"context"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/validation"
	"github.com/ewakoroyal/booking-api/internal/vehicle/domain"
	"github.com/ewakoroyal/booking-api/internal/vehicle/repository"
)

type VehicleService interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, req domain.SaveVehicleRequest) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, req domain.SaveVehicleRequest) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

type vehicleService struct {
	repo repository.VehicleRepository
}

func NewVehicleService(repo repository.VehicleRepository) VehicleService {
	return &vehicleService{repo: repo}
}

func (s *vehicleService) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	return s.repo.GetVehicleByID(ctx, id)
}

func (s *vehicleService) CreateVehicle(ctx context.Context, req domain.SaveVehicleRequest) (*domain.Vehicle, error) {
	if err := validateSaveRequest(req); err != nil {
		return nil, err
	}
	v := &domain.Vehicle{
		Type:        req.Type,
		Name:        req.Name,
		PlateNumber: req.PlateNumber,
		DriverName:  req.DriverName,
		DriverPhone: req.DriverPhone,
		CompanyName: req.CompanyName,
	}
	if err := s.repo.CreateVehicle(ctx, v); err != nil {
		logger.Error("CreateVehicle: repo error", err)
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, req domain.SaveVehicleRequest) (*domain.Vehicle, error) {
	if err := validateSaveRequest(req); err != nil {
		return nil, err
	}
	v, err := s.repo.GetVehicleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Type = req.Type
	v.Name = req.Name
	v.PlateNumber = req.PlateNumber
	v.DriverName = req.DriverName
	v.DriverPhone = req.DriverPhone
	v.CompanyName = req.CompanyName
	if err := s.repo.UpdateVehicle(ctx, v); err != nil {
		logger.Error("UpdateVehicle: repo error", err)
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id string) error {
	// Pesanan lama tetap menyimpan id kendaraan; tampilan menoleransi
	// referensi yang sudah tidak ada.
	return s.repo.DeleteVehicle(ctx, id)
}

func validateSaveRequest(req domain.SaveVehicleRequest) error {
	ve := validation.NewError("Data kendaraan tidak lengkap.")
	if !req.Type.Valid() {
		ve.Add("type", "jenis kendaraan harus Bus, HiAce, atau SUV")
	}
	if req.Name == "" {
		ve.Add("name", "nama kendaraan wajib diisi")
	}
	if req.PlateNumber == "" {
		ve.Add("plate_number", "plat nomor wajib diisi")
	}
	return ve.OrNil()
}
