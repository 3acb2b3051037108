package service

import (
	"context"

	vehicledomain "github.com/ewakoroyal/booking-api/internal/vehicle/domain"
	vehiclerepo "github.com/ewakoroyal/booking-api/internal/vehicle/repository"
)

// VehicleDirectory adalah port pesanan ke aggregate kendaraan; dipakai
// untuk menyegarkan salinan denormalisasi di packageInfo.
type VehicleDirectory interface {
	GetVehicle(ctx context.Context, id string) (*vehicledomain.Vehicle, error)
}

// repoVehicleDirectory membaca langsung dari repository kendaraan;
// cukup karena portal ini satu deployable.
type repoVehicleDirectory struct {
	repo vehiclerepo.VehicleRepository
}

func NewRepoVehicleDirectory(repo vehiclerepo.VehicleRepository) VehicleDirectory {
	return &repoVehicleDirectory{repo: repo}
}

func (d *repoVehicleDirectory) GetVehicle(ctx context.Context, id string) (*vehicledomain.Vehicle, error) {
	return d.repo.GetVehicleByID(ctx, id)
}
