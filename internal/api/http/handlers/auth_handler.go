package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ier-platform/auth-service/internal/api/dto"
	"github.com/ier-platform/auth-service/internal/auth"
	"github.com/ier-platform/auth-service/internal/domain"
	"github.com/ier-platform/auth-service/internal/service"
)

const (
	missingCredentialsDetail = "Both id_number and password are required."
	invalidCredentialsDetail = "Invalid credentials"
)

// AuthHandler exposes the login and token refresh endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login/.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"detail": missingCredentialsDetail,
		})
	}
	if req.IDNumber == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"detail": missingCredentialsDetail,
		})
	}

	account, pair, err := h.auth.Login(c.Context(), req.IDNumber, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"detail": invalidCredentialsDetail,
			})
		}
		return err
	}

	return c.JSON(dto.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    dto.NewPublicProfile(account),
	})
}

// Refresh handles POST /token/refresh/.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.Refresh == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"detail": "refresh token is required",
		})
	}

	access, err := h.auth.Refresh(c.Context(), req.Refresh)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrWrongTokenType) {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Token is invalid or expired",
			})
		}
		return err
	}

	return c.JSON(dto.RefreshResponse{Access: access})
}
