package handler

import (
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type DashboardHandler struct {
	service service.DashboardService
	store   *session.Store
}

func NewDashboardHandler(s service.DashboardService, store *session.Store) *DashboardHandler {
	return &DashboardHandler{service: s, store: store}
}

// Dashboard handles GET /dashboard: aggregate metrics recomputed per request
func (h *DashboardHandler) Dashboard(c *fiber.Ctx) error {
	overview, err := h.service.Overview()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch dashboard"})
	}

	return c.JSON(fiber.Map{
		"flash":     takeFlash(c, h.store),
		"dashboard": overview,
	})
}
