package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Everything under /users requires an
// authenticated administrator.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	app.Post("/authenticate", cfg.Users.Authenticate)

	users := app.Group("/users", cfg.AuthMiddleware.RequireAdmin)
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Post("/change_password", cfg.Users.ChangePassword)
	users.Delete("/:username", cfg.Users.Delete)
}
