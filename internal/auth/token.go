package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ier-platform/auth-service/internal/domain"
)

// Token type claim values. A refresh token can never be presented where an
// access token is expected, and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenPair bundles the two tokens minted at login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenManager issues and validates JWT access/refresh pairs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTLMinutes, refreshTTLHours int) *TokenManager {
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 15
	}
	if refreshTTLHours <= 0 {
		refreshTTLHours = 24
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMinutes) * time.Minute,
		refreshTTL: time.Duration(refreshTTLHours) * time.Hour,
	}
}

// Claims describes the JWT payload. Tokens bind to the account UUID, never
// to mutable fields like email or id_number.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AccountUUID parses the subject back into a UUID.
func (c *Claims) AccountUUID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// GeneratePair mints an access and refresh token for the account.
func (tm *TokenManager) GeneratePair(account *domain.Account) (TokenPair, error) {
	access, _, err := tm.generate(account.UUID, TokenTypeAccess, tm.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := tm.generate(account.UUID, TokenTypeRefresh, tm.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess mints a fresh access token for the account UUID.
func (tm *TokenManager) GenerateAccess(accountUUID uuid.UUID) (string, time.Time, error) {
	return tm.generate(accountUUID, TokenTypeAccess, tm.accessTTL)
}

func (tm *TokenManager) generate(accountUUID uuid.UUID, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountUUID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccess validates an access token and returns its claims.
func (tm *TokenManager) ParseAccess(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, TokenTypeAccess)
}

// ParseRefresh validates a refresh token and returns its claims.
func (tm *TokenManager) ParseRefresh(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, TokenTypeRefresh)
}

func (tm *TokenManager) parse(tokenStr, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
