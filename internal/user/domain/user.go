package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type AccountStatus string

const (
	AccountPendingApproval AccountStatus = "pending_approval"
	AccountActive          AccountStatus = "active"
	AccountSuspended       AccountStatus = "suspended"
)

func (s AccountStatus) Valid() bool {
	return s == AccountPendingApproval || s == AccountActive || s == AccountSuspended
}

type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	Phone         *string       `json:"phone,omitempty"` // Pointer agar bisa null
	Name          string        `json:"name"`
	Role          Role          `json:"role"`
	PPIUName      *string       `json:"ppiu_name,omitempty"` // Perusahaan Penyelenggara Ibadah Umrah
	Address       *string       `json:"address,omitempty"`
	AccountStatus AccountStatus `json:"account_status"`
	PasswordHash  string        `json:"-"` // Jangan kirim password hash ke client
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Untuk registrasi, password plain text
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password" binding:"required,min=8"`
	PPIUName *string `json:"ppiu_name"`
	Address  *string `json:"address"`
}

// Untuk login
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // Bisa email atau phone
	Password   string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest sengaja tidak memuat role/accountStatus: keduanya
// hanya bisa diubah admin lewat jalur khusus.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	PPIUName *string `json:"ppiu_name"`
	Address  *string `json:"address"`
}

type UpdateAccountStatusRequest struct {
	AccountStatus AccountStatus `json:"account_status" binding:"required"`
}
