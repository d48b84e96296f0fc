package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ier-platform/auth-service/internal/api/http/handlers"
	"github.com/ier-platform/auth-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Session        *handlers.SessionHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login/", cfg.Auth.Login)
	app.Post("/token/refresh/", cfg.Auth.Refresh)

	app.Get("/user/", cfg.AuthMiddleware.Handle, cfg.Session.CurrentUser)
}
