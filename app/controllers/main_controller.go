package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

// HandleHome renders the landing page. It mostly exists as a flash target
// for redirects out of the two workflows.
func HandleHome(c *fiber.Ctx) error {
	return c.Render("home", fiber.Map{
		"Title": "NearBiz Back-Office",
		"Flash": flash.Get(c),
	})
}
