package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/domain"
)

const apiKeyLocal = "api_key"

// Middleware adapts the guard for the route layer.
type Middleware struct {
	guard *Guard
}

// NewMiddleware constructs middleware.
func NewMiddleware(guard *Guard) *Middleware {
	return &Middleware{guard: guard}
}

// RequireAdmin authorizes the request before handler execution and stores
// the resulting APIKey in request locals.
func (m *Middleware) RequireAdmin(c *fiber.Ctx) error {
	key, err := m.guard.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(apiKeyLocal, key)
	return c.Next()
}

// APIKeyFromContext retrieves the authorization capability for the request.
func APIKeyFromContext(c *fiber.Ctx) (*domain.APIKey, bool) {
	key, ok := c.Locals(apiKeyLocal).(*domain.APIKey)
	return key, ok
}
