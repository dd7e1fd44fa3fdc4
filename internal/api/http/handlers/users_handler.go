package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/store"
	"github.com/spec-kit/account-service/pkg/util"
)

// UsersHandler exposes authentication and account-administration endpoints.
type UsersHandler struct {
	backend store.Backend
	tokens  *auth.Tokenizer
}

// NewUsersHandler constructs handler.
func NewUsersHandler(backend store.Backend, tokens *auth.Tokenizer) *UsersHandler {
	return &UsersHandler{backend: backend, tokens: tokens}
}

// Authenticate handles POST /authenticate. A successful login overwrites the
// stored token, superseding any previously issued one for the same user.
func (h *UsersHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return util.NewBadRequest("username and password required")
	}

	user, err := h.backend.FindUser(c.UserContext(), req.Username, auth.Hash(req.Password))
	if err != nil {
		return err
	}

	token, err := h.tokens.Generate()
	if err != nil {
		return err
	}

	user.Token = token
	updated, err := h.backend.UpdateUser(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(domain.APIKey{Token: updated.Token})
}

// Create handles POST /users. The stored password is the hash of the
// submitted plaintext.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return util.NewBadRequest("username and password required")
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: auth.Hash(req.Password),
		IsAdmin:  req.IsAdmin,
	}
	if err := h.backend.AddUser(c.UserContext(), user); err != nil {
		return err
	}

	c.Location("/users/" + user.Username)
	return c.Status(http.StatusCreated).JSON(user.Partial())
}

// Delete handles DELETE /users/:username.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return util.NewBadRequest("username required")
	}
	if err := h.backend.DeleteUser(c.UserContext(), username); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List handles GET /users, returning partial projections only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.backend.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	partials := make([]domain.PartialUser, 0, len(users))
	for _, user := range users {
		partials = append(partials, user.Partial())
	}
	return c.JSON(partials)
}

// ChangePassword handles POST /users/change_password. The acting user is
// re-resolved from the guard's verified token; the session token itself is
// left untouched.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	key, ok := auth.APIKeyFromContext(c)
	if !ok {
		return util.NewUnauthenticated("missing authorization")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewBadRequest("invalid payload")
	}
	if req.New == "" {
		return util.NewBadRequest("new password required")
	}

	user, err := h.backend.FindUserByToken(c.UserContext(), key.Token)
	if err != nil {
		return err
	}
	if user.Password != auth.Hash(req.Current) {
		return util.NewBadRequest("invalid password")
	}

	user.Password = auth.Hash(req.New)
	if _, err := h.backend.UpdateUser(c.UserContext(), user); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
