package domain

import "time"

type VehicleType string

const (
	TypeBus   VehicleType = "Bus"
	TypeHiAce VehicleType = "HiAce"
	TypeSUV   VehicleType = "SUV"
)

func (t VehicleType) Valid() bool {
	return t == TypeBus || t == TypeHiAce || t == TypeSUV
}

// Vehicle adalah sumber kebenaran untuk salinan denormalisasi yang
// tersimpan di packageInfo pesanan.
type Vehicle struct {
	ID          string      `json:"id"`
	Type        VehicleType `json:"type"`
	Name        string      `json:"name"`
	PlateNumber string      `json:"plate_number"`
	DriverName  string      `json:"driver_name,omitempty"`
	DriverPhone string      `json:"driver_phone,omitempty"`
	CompanyName string      `json:"company_name,omitempty"` // nama syarikah
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type SaveVehicleRequest struct {
	Type        VehicleType `json:"type" binding:"required"`
	Name        string      `json:"name" binding:"required"`
	PlateNumber string      `json:"plate_number" binding:"required"`
	DriverName  string      `json:"driver_name"`
	DriverPhone string      `json:"driver_phone"`
	CompanyName string      `json:"company_name"`
}
