package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/user/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserConflict = errors.New("user with this email or phone number already exists")

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	UpdateAccountStatus(ctx context.Context, id string, status domain.AccountStatus) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, email, phone, name, role, ppiu_name, address, account_status, password_hash, created_at, updated_at`

func (r *postgresUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, phone, name, role, ppiu_name, address, account_status, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at`

	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	err := r.db.QueryRowContext(ctx, query,
		user.Email, nullString(user.Phone), user.Name, user.Role,
		nullString(user.PPIUName), nullString(user.Address),
		user.AccountStatus, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// Kode error '23505' adalah unique_violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUserConflict
		}
		logger.Error("CreateUser: failed to insert user", err)
		return err
	}
	return nil
}

func (r *postgresUserRepository) getUserBy(ctx context.Context, field, value string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + field + ` = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.Error("GetUserBy"+field+": query failed", err)
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *postgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *postgresUserRepository) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getUserBy(ctx, "phone", phone)
}

// GetUserByIdentifier mencari berdasarkan email dulu, lalu nomor telepon
// jika tidak ketemu.
func (r *postgresUserRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := r.GetUserByEmail(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	return r.GetUserByPhone(ctx, identifier)
}

func (r *postgresUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListUsers: query failed", err)
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error("ListUsers: scan failed", err)
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $1, phone = $2, ppiu_name = $3, address = $4, updated_at = $5
              WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Name, nullString(user.Phone), nullString(user.PPIUName), nullString(user.Address),
		time.Now(), user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUserConflict
		}
		logger.Error("UpdateUser: failed to update user", err)
		return err
	}
	return nil
}

func (r *postgresUserRepository) UpdateAccountStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET account_status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		logger.Error("UpdateAccountStatus: update failed", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u        domain.User
		phone    sql.NullString
		ppiuName sql.NullString
		address  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &phone, &u.Name, &u.Role, &ppiuName, &address, &u.AccountStatus, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if ppiuName.Valid {
		u.PPIUName = &ppiuName.String
	}
	if address.Valid {
		u.Address = &address.String
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
