package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/nearbiz/backoffice/app/repository"
	apiv1 "github.com/nearbiz/backoffice/internal/api/v1"
	"github.com/nearbiz/backoffice/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes, session-authenticated like the admin console
	v1 := api.Group("/v1", middleware.RequireAPISessionAuth)
	apiServer := apiv1.NewAPIServer(repository.GetGlobalRepositories())
	apiv1.RegisterHandlers(v1, apiServer)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
