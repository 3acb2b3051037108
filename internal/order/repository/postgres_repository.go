package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ewakoroyal/booking-api/internal/order/domain"
	"github.com/ewakoroyal/booking-api/internal/platform/logger"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderConflict   = errors.New("order was modified by another request, please retry")
	ErrPaymentNotFound = errors.New("payment not found")
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error)
	// UpdateOrder menulis ulang seluruh baris dengan cek version
	// (optimistic concurrency); tulis basi -> ErrOrderConflict.
	UpdateOrder(ctx context.Context, order *domain.Order) error
	AddPayment(ctx context.Context, payment *domain.Payment) error
	DeletePayment(ctx context.Context, orderID, paymentID string) error
	ListStaleRequestOrders(ctx context.Context, olderThan time.Duration) ([]domain.Order, error)
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

const orderColumns = `id, user_id, service_type, data, status, admin_notes,
	customer_confirmation, package_info, manifest, total_price, version,
	created_at, updated_at`

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (user_id, service_type, data, status, admin_notes, manifest, version, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
              RETURNING id, version, created_at, updated_at`

	dataJSON, err := json.Marshal(order.Data)
	if err != nil {
		return err
	}
	manifestJSON, err := json.Marshal(orEmptyManifest(order.Manifest))
	if err != nil {
		return err
	}

	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = domain.StatusRequestConfirmation
	}

	err = r.db.QueryRowContext(ctx, query,
		order.UserID, order.ServiceType, dataJSON, order.Status, order.AdminNotes,
		manifestJSON, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		logger.Error("CreateOrder: failed to insert order", err)
		return err
	}
	return nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		logger.Error("GetOrderByID: query failed", err)
		return nil, err
	}

	payments, err := r.listPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Payments = payments
	return order, nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *postgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *postgresOrderRepository) ListStaleRequestOrders(ctx context.Context, olderThan time.Duration) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status = $1 AND created_at < $2
              ORDER BY created_at ASC`
	threshold := time.Now().Add(-olderThan)
	return r.queryOrders(ctx, query, domain.StatusRequestConfirmation, threshold)
}

func (r *postgresOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	query := `UPDATE orders
              SET data = $1, status = $2, admin_notes = $3, customer_confirmation = $4,
                  package_info = $5, manifest = $6, total_price = $7,
                  version = version + 1, updated_at = $8
              WHERE id = $9 AND version = $10
              RETURNING version, updated_at`

	dataJSON, err := json.Marshal(order.Data)
	if err != nil {
		return err
	}
	manifestJSON, err := json.Marshal(orEmptyManifest(order.Manifest))
	if err != nil {
		return err
	}
	var packageJSON interface{}
	if order.PackageInfo != nil {
		b, err := json.Marshal(order.PackageInfo)
		if err != nil {
			return err
		}
		packageJSON = b
	}

	var confirmation sql.NullBool
	if order.CustomerConfirmation != nil {
		confirmation = sql.NullBool{Bool: *order.CustomerConfirmation, Valid: true}
	}
	var totalPrice sql.NullInt64
	if order.TotalPrice != nil {
		totalPrice = sql.NullInt64{Int64: *order.TotalPrice, Valid: true}
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		dataJSON, order.Status, order.AdminNotes, confirmation,
		packageJSON, manifestJSON, totalPrice, now,
		order.ID, order.Version,
	).Scan(&order.Version, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Baris tidak cocok: pesanan hilang atau version basi.
			var exists bool
			checkErr := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, order.ID).Scan(&exists)
			if checkErr == nil && exists {
				return ErrOrderConflict
			}
			return ErrOrderNotFound
		}
		logger.Error("UpdateOrder: failed to update order", err)
		return err
	}
	return nil
}

func (r *postgresOrderRepository) AddPayment(ctx context.Context, payment *domain.Payment) error {
	query := `INSERT INTO payments (order_id, user_id, amount, payment_date, payment_type, payment_method, notes, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`

	payment.CreatedAt = time.Now()
	err := r.db.QueryRowContext(ctx, query,
		payment.OrderID, payment.UserID, payment.Amount, payment.PaymentDate,
		payment.PaymentType, payment.PaymentMethod, payment.Notes, payment.CreatedAt,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		logger.Error("AddPayment: failed to insert payment", err)
		return err
	}

	// Sentuh updated_at pesanan tanpa menaikkan version: pembayaran
	// hidup di tabelnya sendiri.
	if _, err := r.db.ExecContext(ctx, `UPDATE orders SET updated_at = $1 WHERE id = $2`, payment.CreatedAt, payment.OrderID); err != nil {
		logger.Error("AddPayment: failed to touch order", err)
	}
	return nil
}

func (r *postgresOrderRepository) DeletePayment(ctx context.Context, orderID, paymentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1 AND order_id = $2`, paymentID, orderID)
	if err != nil {
		logger.Error("DeletePayment: delete failed", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE orders SET updated_at = $1 WHERE id = $2`, time.Now(), orderID)
	return nil
}

func (r *postgresOrderRepository) listPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	query := `SELECT id, order_id, user_id, amount, payment_date, payment_type, payment_method, notes, created_at
              FROM payments WHERE order_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		logger.Error("listPayments: query failed", err)
		return nil, err
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		var notes sql.NullString
		if err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.PaymentDate, &p.PaymentType, &p.PaymentMethod, &notes, &p.CreatedAt); err != nil {
			logger.Error("listPayments: scan failed", err)
			return nil, err
		}
		p.Notes = notes.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *postgresOrderRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		o            domain.Order
		dataJSON     []byte
		packageJSON  []byte
		manifestJSON []byte
		adminNotes   sql.NullString
		confirmation sql.NullBool
		totalPrice   sql.NullInt64
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.ServiceType, &dataJSON, &o.Status, &adminNotes,
		&confirmation, &packageJSON, &manifestJSON, &totalPrice, &o.Version,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.AdminNotes = adminNotes.String
	if confirmation.Valid {
		o.CustomerConfirmation = &confirmation.Bool
	}
	if totalPrice.Valid {
		o.TotalPrice = &totalPrice.Int64
	}

	o.Data, err = domain.DecodeBookingData(o.ServiceType, dataJSON)
	if err != nil {
		return nil, err
	}
	if len(packageJSON) > 0 {
		var pi domain.PackageInfo
		if err := json.Unmarshal(packageJSON, &pi); err != nil {
			return nil, err
		}
		o.PackageInfo = &pi
	}
	if len(manifestJSON) > 0 {
		if err := json.Unmarshal(manifestJSON, &o.Manifest); err != nil {
			return nil, err
		}
	}
	if o.Manifest == nil {
		o.Manifest = []domain.ManifestItem{}
	}
	if o.Payments == nil {
		o.Payments = []domain.Payment{}
	}
	return &o, nil
}

func (r *postgresOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("queryOrders: query failed", err)
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := r.scanOrder(rows)
		if err != nil {
			logger.Error("queryOrders: scan failed", err)
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func orEmptyManifest(m []domain.ManifestItem) []domain.ManifestItem {
	if m == nil {
		return []domain.ManifestItem{}
	}
	return m
}
