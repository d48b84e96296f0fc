package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/ier-platform/auth-service/internal/auth"
	"github.com/ier-platform/auth-service/internal/config"
	"github.com/ier-platform/auth-service/internal/domain"
	"github.com/ier-platform/auth-service/internal/repository"
	apperrors "github.com/ier-platform/auth-service/pkg/util"
)

// AuthService coordinates account provisioning, credential verification
// and token issuance.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service. The account repository is an explicit
// constructor dependency; there is no process-wide registry.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, cfg.RefreshTokenTTLHours),
		bcryptCost: cfg.BcryptCost,
	}
}

// CreateAccountInput carries the fields required to provision an account.
type CreateAccountInput struct {
	IDNumber    string
	Password    string
	FirstName   string
	LastName    string
	MiddleName  *string
	Email       string
	Role        domain.Role
	Status      domain.AccountStatus
	IsStaff     bool
	IsSuperuser bool
}

// CreateAccount provisions a new account. The password is hashed before it
// ever reaches the repository; status defaults to active.
func (s *AuthService) CreateAccount(ctx context.Context, in CreateAccountInput) (*domain.Account, error) {
	if in.IDNumber == "" {
		return nil, apperrors.NewValidationError("id_number is required", nil)
	}
	if in.Password == "" {
		return nil, apperrors.NewValidationError("password is required", nil)
	}
	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return nil, apperrors.NewValidationError("email, first_name and last_name are required", nil)
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(in.Role)})
	}
	if in.Status == "" {
		in.Status = domain.StatusActive
	}
	if !in.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(in.Status)})
	}

	if _, err := s.accounts.GetByIDNumber(ctx, in.IDNumber); err == nil {
		return nil, apperrors.NewValidationError(domain.ErrIDNumberTaken.Error(), nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperrors.NewValidationError(domain.ErrEmailTaken.Error(), nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		IDNumber:     in.IDNumber,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		MiddleName:   in.MiddleName,
		Email:        in.Email,
		Role:         in.Role,
		Status:       in.Status,
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		switch err {
		case domain.ErrIDNumberTaken, domain.ErrEmailTaken:
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		return nil, err
	}
	return account, nil
}

// Authenticate resolves an account by id_number and verifies the password
// and status gate. Unknown id_number, wrong password and inactive status
// all surface as the same ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, idNumber, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByIDNumber(ctx, idNumber)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.IsActive() {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

// Login authenticates and mints an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, idNumber, password string) (*domain.Account, auth.TokenPair, error) {
	account, err := s.Authenticate(ctx, idNumber, password)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	pair, err := s.tokenMgr.GeneratePair(account)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return account, pair, nil
}

// Refresh validates a refresh token, re-resolves the bound account and
// mints a new access token. Account status is not re-evaluated here: a
// refresh token minted before deactivation stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	accountUUID, err := claims.AccountUUID()
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	account, err := s.accounts.GetByID(ctx, accountUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", auth.ErrInvalidToken
		}
		return "", err
	}
	access, _, err := s.tokenMgr.GenerateAccess(account.UUID)
	if err != nil {
		return "", err
	}
	return access, nil
}

// EnsureBootstrapAccount provisions the initial administrator when
// configured and absent. Called once at startup.
func (s *AuthService) EnsureBootstrapAccount(ctx context.Context, cfg config.AuthConfig) (*domain.Account, error) {
	if cfg.BootstrapIDNumber == "" || cfg.BootstrapPassword == "" {
		return nil, nil
	}
	if existing, err := s.accounts.GetByIDNumber(ctx, cfg.BootstrapIDNumber); err == nil {
		return existing, nil
	} else if err != pgx.ErrNoRows {
		return nil, err
	}
	return s.CreateAccount(ctx, CreateAccountInput{
		IDNumber:    cfg.BootstrapIDNumber,
		Password:    cfg.BootstrapPassword,
		FirstName:   cfg.BootstrapFirstName,
		LastName:    cfg.BootstrapLastName,
		Email:       cfg.BootstrapEmail,
		Role:        domain.RoleAdmin,
		Status:      domain.StatusActive,
		IsStaff:     true,
		IsSuperuser: true,
	})
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
