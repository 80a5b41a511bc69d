package handler

import (
	"go-stocktrack/internal/middleware"
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

type UserHandler struct {
	userService service.UserService
	store       *session.Store
}

func NewUserHandler(userService service.UserService, store *session.Store) *UserHandler {
	return &UserHandler{userService: userService, store: store}
}

// RegisterPage handles GET /register
func (h *UserHandler) RegisterPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"flash": takeFlash(c, h.store)})
}

// Register handles POST /register (admin only)
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.userService.Register(&req, middleware.Principal(c))
	if err != nil {
		if middleware.WantsJSON(c) {
			return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		setFlash(c, h.store, err.Error())
		return c.Redirect("/register", fiber.StatusFound)
	}

	if middleware.WantsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "Account created successfully!",
			"data":    user.ToResponse(),
		})
	}
	setFlash(c, h.store, "Account created successfully!")
	return c.Redirect("/register", fiber.StatusFound)
}

// GetUsers handles GET /getusers (admin only)
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch users"})
	}
	return c.JSON(fiber.Map{
		"flash": takeFlash(c, h.store),
		"users": users,
	})
}

// DeleteUser handles POST /delete_user/:id (admin only, never self)
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user ID"})
	}

	if err := h.userService.DeleteUser(id, middleware.Principal(c)); err != nil {
		if middleware.WantsJSON(c) {
			return c.Status(errStatus(err)).JSON(fiber.Map{"error": err.Error()})
		}
		setFlash(c, h.store, err.Error())
		return c.Redirect("/getusers", fiber.StatusFound)
	}

	if middleware.WantsJSON(c) {
		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	}
	setFlash(c, h.store, "User deleted successfully")
	return c.Redirect("/getusers", fiber.StatusFound)
}
