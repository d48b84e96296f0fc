package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ier-platform/auth-service/internal/api/dto"
	"github.com/ier-platform/auth-service/internal/auth"
	apperrors "github.com/ier-platform/auth-service/pkg/util"
)

// SessionHandler serves the current-user endpoint.
type SessionHandler struct{}

// NewSessionHandler constructs handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// CurrentUser handles GET /user/. The bearer middleware has already
// resolved and gated the account.
func (h *SessionHandler) CurrentUser(c *fiber.Ctx) error {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.UserResponse{User: dto.NewPublicProfile(account)})
}
