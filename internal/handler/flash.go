package handler

import (
	"errors"

	"go-stocktrack/internal/service"
	"go-stocktrack/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const flashKey = "flash"

// setFlash stores a one-shot notice in the session for the next page load.
func setFlash(c *fiber.Ctx, store *session.Store, message string) {
	sess, err := store.Get(c)
	if err != nil {
		return
	}
	sess.Set(flashKey, message)
	_ = sess.Save()
}

// takeFlash reads and clears the pending notice, if any.
func takeFlash(c *fiber.Ctx, store *session.Store) string {
	sess, err := store.Get(c)
	if err != nil {
		return ""
	}
	message, _ := sess.Get(flashKey).(string)
	if message != "" {
		sess.Delete(flashKey)
		_ = sess.Save()
	}
	return message
}

// errStatus maps domain errors onto HTTP statuses for API clients.
// Anything unrecognized is treated as an infrastructure failure.
func errStatus(err error) int {
	switch {
	case errors.Is(err, validator.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateSKU),
		errors.Is(err, service.ErrDuplicateUsername):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSelfDelete):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
