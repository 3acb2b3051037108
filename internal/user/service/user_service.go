package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ewakoroyal/booking-api/internal/platform/logger"
	"github.com/ewakoroyal/booking-api/internal/platform/notify"
	"github.com/ewakoroyal/booking-api/internal/user/domain"
	"github.com/ewakoroyal/booking-api/internal/user/repository"
)

var (
	ErrInvalidCredentials = errors.New("Email/No. HP atau sandi salah.")
	ErrUserAlreadyExists  = errors.New("Email atau nomor telepon sudah terdaftar.")
	ErrAccountPending     = errors.New("Akun Anda sedang menunggu persetujuan Admin.")
	ErrAccountSuspended   = errors.New("Akun Anda telah ditangguhkan. Silakan hubungi Admin.")
	ErrInvalidStatus      = errors.New("status akun tidak dikenal")
)

const tokenTTL = 72 * time.Hour

type UserService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (*domain.User, error)
	UpdateAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.User, error)
}

type userService struct {
	repo      repository.UserRepository
	notifier  notify.Notifier
	jwtSecret []byte
}

func NewUserService(repo repository.UserRepository, notifier notify.Notifier, jwtSecret []byte) UserService {
	if len(jwtSecret) == 0 {
		logger.Warn("JWT_SECRET_KEY not set, using default insecure key")
		jwtSecret = []byte("your-very-secret-key-for-jwt") // fallback
	}
	return &userService{repo: repo, notifier: notifier, jwtSecret: jwtSecret}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	// Validasi dasar (sebagian sudah dilakukan oleh Gin `binding:"required"`)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Phone != nil {
		*req.Phone = strings.TrimSpace(*req.Phone)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		Phone:        req.Phone,
		Name:         req.Name,
		PPIUName:     req.PPIUName,
		Address:      req.Address,
		Role:         domain.RoleCustomer,
		// Registrasi baru selalu menunggu persetujuan admin.
		AccountStatus: domain.AccountPendingApproval,
		PasswordHash:  string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Error("Register: failed to create user in repo", err)
		return nil, fmt.Errorf("could not save user: %w", err)
	}

	user.PasswordHash = "" // Hapus sebelum dikembalikan
	return user, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)

	user, err := s.repo.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login: failed to get user by identifier", err)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Hanya akun aktif yang boleh masuk.
	switch user.AccountStatus {
	case domain.AccountActive:
	case domain.AccountPendingApproval:
		return nil, ErrAccountPending
	case domain.AccountSuspended:
		return nil, ErrAccountSuspended
	default:
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	user.PasswordHash = "" // Hapus sebelum dikembalikan
	return &domain.LoginResponse{
		User:  *user,
		Token: tokenString,
	}, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// UpdateProfile sengaja tidak bisa menyentuh role/accountStatus.
func (s *userService) UpdateProfile(ctx context.Context, id string, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.PPIUName != nil {
		user.PPIUName = req.PPIUName
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateAccountStatus(ctx context.Context, id string, status domain.AccountStatus) (*domain.User, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAccountStatus(ctx, id, status); err != nil {
		return nil, err
	}
	user.AccountStatus = status
	user.PasswordHash = ""

	if user.Phone != nil {
		var msg string
		switch status {
		case domain.AccountActive:
			msg = "Akun Ewako Royal Anda telah diaktifkan oleh Admin. Anda sekarang dapat login."
		case domain.AccountSuspended:
			msg = "Akun Ewako Royal Anda telah ditangguhkan oleh Admin. Silakan hubungi Admin untuk informasi lebih lanjut."
		case domain.AccountPendingApproval:
			msg = "Status akun Ewako Royal Anda diubah menjadi 'Menunggu Persetujuan'."
		}
		if msg != "" {
			if err := s.notifier.NotifyCustomer(ctx, *user.Phone, msg); err != nil {
				logger.Error("UpdateAccountStatus: failed to notify user", err)
			}
		}
	}
	return user, nil
}
