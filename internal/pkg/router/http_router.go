package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nearbiz/backoffice/app/controllers"
	"github.com/nearbiz/backoffice/app/repository"
	"github.com/nearbiz/backoffice/internal/pkg/constants"
	"github.com/nearbiz/backoffice/internal/pkg/middleware"
	"github.com/nearbiz/backoffice/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Session store must exist before the user context middleware reads it
	session.NewSessionStore()
	app.Use(middleware.UserContextMiddleware)

	app.Get(constants.RouteHome, controllers.HandleHome)

	// Owner surface: upgrade submission form
	app.Get(constants.RouteUpgradeForm, controllers.HandleUpgradeForm)
	app.Post(constants.RouteUpgradeForm, controllers.HandleUpgradeSubmit)

	// Admin surface: pending payment confirmations
	repos := repository.GetGlobalRepositories()
	adminPending := controllers.NewAdminPendingController(repos)

	admin := app.Group("/admin", middleware.RequireAdmin)
	admin.Get("/upgrades", adminPending.HandlePendingList)
	admin.Post("/upgrades/confirm/:id", adminPending.HandleConfirmPayment)
	admin.Post("/upgrades/delete/:id", adminPending.HandleDeleteListing)
	admin.Get("/upgrades/edit/:id", adminPending.HandleEditListing)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
