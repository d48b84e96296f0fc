package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/ier-platform/auth-service/internal/domain"
	"github.com/ier-platform/auth-service/internal/repository"
	apperrors "github.com/ier-platform/auth-service/pkg/util"
)

const accountKey = "auth_account"

// Middleware validates bearer access tokens and loads the account.
type Middleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
	cache    *AccountCache
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, accounts repository.AccountRepository, cache *AccountCache) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts, cache: cache}
}

// Handle enforces authentication for protected routes. Inactive accounts
// are rejected even when the token itself is still valid.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseAccess(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	accountUUID, err := claims.AccountUUID()
	if err != nil {
		return apperrors.NewUnauthorized("invalid token subject")
	}

	account, ok := m.cache.Get(c.Context(), accountUUID)
	if !ok {
		account, err = m.accounts.GetByID(c.Context(), accountUUID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewUnauthorized("account not found")
			}
			return apperrors.MapError(err)
		}
		m.cache.Set(c.Context(), account)
	}

	if !account.IsActive() {
		return apperrors.NewUnauthorized("account inactive")
	}

	c.Locals(accountKey, account)
	return c.Next()
}

// AccountFromContext retrieves the authenticated account.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(accountKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}
