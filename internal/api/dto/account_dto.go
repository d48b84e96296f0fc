package dto

import (
	"time"

	"github.com/ier-platform/auth-service/internal/domain"
)

// LoginRequest payload for POST /login/.
type LoginRequest struct {
	IDNumber string `json:"id_number"`
	Password string `json:"password"`
}

// RefreshRequest payload for POST /token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// PublicProfile is the redacted projection of an account. It never carries
// the password hash.
type PublicProfile struct {
	UUID        string    `json:"uuid"`
	IDNumber    string    `json:"id_number"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	MiddleName  *string   `json:"middle_name,omitempty"`
	FullName    string    `json:"full_name"`
	UserLevel   string    `json:"user_level"`
	Status      string    `json:"status"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPublicProfile projects an account into its public shape.
func NewPublicProfile(account *domain.Account) PublicProfile {
	return PublicProfile{
		UUID:        account.UUID.String(),
		IDNumber:    account.IDNumber,
		Email:       account.Email,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		MiddleName:  account.MiddleName,
		FullName:    account.FullName(),
		UserLevel:   string(account.Role),
		Status:      string(account.Status),
		IsActive:    account.IsActive(),
		IsStaff:     account.IsStaff,
		IsSuperuser: account.IsSuperuser,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// LoginResponse is the success body for POST /login/.
type LoginResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    PublicProfile `json:"user"`
}

// RefreshResponse is the success body for POST /token/refresh/.
type RefreshResponse struct {
	Access string `json:"access"`
}

// UserResponse is the success body for GET /user/.
type UserResponse struct {
	User PublicProfile `json:"user"`
}
