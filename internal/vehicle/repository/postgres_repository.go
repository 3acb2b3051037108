package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/vehicle/domain"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

type VehicleRepository interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	GetVehicleByID(ctx context.Context, id string) (*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v *domain.Vehicle) error
	UpdateVehicle(ctx context.Context, v *domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

type postgresVehicleRepository struct {
	db *sql.DB
}

func NewPostgresVehicleRepository(db *sql.DB) VehicleRepository {
	return &postgresVehicleRepository{db: db}
}

const vehicleColumns = `id, type, name, plate_number, driver_name, driver_phone, company_name, created_at, updated_at`

func (r *postgresVehicleRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListVehicles: query failed", err)
		return nil, err
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			logger.Error("ListVehicles: scan failed", err)
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

func (r *postgresVehicleRepository) GetVehicleByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		logger.Error("GetVehicleByID: query failed", err)
		return nil, err
	}
	return v, nil
}

func (r *postgresVehicleRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (type, name, plate_number, driver_name, driver_phone, company_name, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at, updated_at`
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	err := r.db.QueryRowContext(ctx, query,
		v.Type, v.Name, v.PlateNumber, nullable(v.DriverName), nullable(v.DriverPhone), nullable(v.CompanyName),
		v.CreatedAt, v.UpdatedAt,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		logger.Error("CreateVehicle: failed to insert vehicle", err)
		return err
	}
	return nil
}

func (r *postgresVehicleRepository) UpdateVehicle(ctx context.Context, v *domain.Vehicle) error {
	query := `UPDATE vehicles
              SET type = $1, name = $2, plate_number = $3, driver_name = $4, driver_phone = $5, company_name = $6, updated_at = $7
              WHERE id = $8 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		v.Type, v.Name, v.PlateNumber, nullable(v.DriverName), nullable(v.DriverPhone), nullable(v.CompanyName),
		time.Now(), v.ID,
	).Scan(&v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVehicleNotFound
		}
		logger.Error("UpdateVehicle: failed to update vehicle", err)
		return err
	}
	return nil
}

func (r *postgresVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteVehicle: delete failed", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var (
		v           domain.Vehicle
		driverName  sql.NullString
		driverPhone sql.NullString
		companyName sql.NullString
	)
	err := row.Scan(&v.ID, &v.Type, &v.Name, &v.PlateNumber, &driverName, &driverPhone, &companyName, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	v.DriverName = driverName.String
	v.DriverPhone = driverPhone.String
	v.CompanyName = companyName.String
	return &v, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
