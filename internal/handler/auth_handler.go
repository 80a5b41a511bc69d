package handler

import (
	"go-stocktrack/internal/middleware"
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type AuthHandler struct {
	authService service.AuthService
	store       *session.Store
}

func NewAuthHandler(authService service.AuthService, store *session.Store) *AuthHandler {
	return &AuthHandler{authService: authService, store: store}
}

// LoginRequest represents the login request body (form or JSON)
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flash": takeFlash(c, h.store)})
}

// Login handles POST /login: verifies credentials, starts a cookie session
// and hands API clients a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	result, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if middleware.WantsJSON(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		setFlash(c, h.store, "Invalid username or password!")
		return c.Redirect("/login", fiber.StatusFound)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start session"})
	}
	sess.Set("user_id", result.User.ID.String())
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to start session"})
	}

	if middleware.WantsJSON(c) {
		return c.JSON(result)
	}
	setFlash(c, h.store, "Logged in successfully!")
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		_ = sess.Destroy()
	}

	if middleware.WantsJSON(c) {
		return c.JSON(fiber.Map{"message": "logged out"})
	}
	setFlash(c, h.store, "You have been logged out!")
	return c.Redirect("/login", fiber.StatusFound)
}
