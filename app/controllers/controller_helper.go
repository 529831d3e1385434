package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

func isHTMXRequest(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

// respondActionError reports a failed action as a flash notification. HTMX
// callers get the message inline, everyone else is redirected.
func respondActionError(c *fiber.Ctx, status int, message, redirectPath string) error {
	flash.WithError(c, fiber.Map{
		"type":    "error",
		"message": message,
	})
	if isHTMXRequest(c) {
		return c.Status(status).SendString(message)
	}
	return c.Redirect(redirectPath)
}

// parseIDParam reads the :id route parameter as an unsigned integer
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
