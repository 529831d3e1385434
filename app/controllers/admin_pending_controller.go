package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/nearbiz/backoffice/app/models"
	"github.com/nearbiz/backoffice/app/repository"
	"github.com/nearbiz/backoffice/internal/pkg/cache"
	"github.com/nearbiz/backoffice/internal/pkg/constants"
	"github.com/nearbiz/backoffice/internal/pkg/env"
)

// AdminPendingController serves the pending payment-confirmation console
type AdminPendingController struct {
	repos *repository.Repositories
}

// NewAdminPendingController creates a new admin pending controller with repository dependencies
func NewAdminPendingController(repos *repository.Repositories) *AdminPendingController {
	return &AdminPendingController{
		repos: repos,
	}
}

// HandlePendingList renders the table of listings awaiting payment confirmation
func (ac *AdminPendingController) HandlePendingList(c *fiber.Ctx) error {
	rows, err := ac.repos.Business.ListPendingConfirmation()
	if err != nil {
		fiberlog.Errorf("[Admin] Failed to load pending confirmations: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to load pending confirmations",
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	return c.Render("admin_pending", fiber.Map{
		"Title":       "Pending payment confirmations",
		"Rows":        rows,
		"EditBaseURL": ListingEditBaseURL(),
		"Flash":       flash.Get(c),
	})
}

// HandleConfirmPayment marks a single listing's payment as confirmed. The
// redirect back to the list is the re-fetch.
func (ac *AdminPendingController) HandleConfirmPayment(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c)
	if err != nil {
		return c.Redirect(constants.RouteAdminUpgrades)
	}

	release, ok := cache.AcquireLock(fmt.Sprintf("lock:confirm:%d", businessID), 15*time.Second)
	if !ok {
		fm := fiber.Map{
			"type":    "error",
			"message": "This confirmation is already being processed",
		}
		return flash.WithError(c, fm).Redirect(constants.RouteAdminUpgrades)
	}
	defer release()

	if err := ac.repos.Business.UpdatePaymentStatus(businessID, models.PaymentStatusConfirmed); err != nil {
		fiberlog.Errorf("[Admin] Failed to confirm payment for listing %d: %v", businessID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to confirm the payment",
		}
		return flash.WithError(c, fm).Redirect(constants.RouteAdminUpgrades)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Payment confirmed",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.RouteAdminUpgrades)
}

// HandleDeleteListing permanently removes a listing. The destructive action
// must be acknowledged with confirm=true; a declined prompt performs nothing.
func (ac *AdminPendingController) HandleDeleteListing(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	businessID, err := parseIDParam(c)
	if err != nil {
		return c.Redirect(constants.RouteAdminUpgrades)
	}

	if c.FormValue("confirm") != "true" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Deletion was not confirmed",
		}
		return flash.WithError(c, fm).Redirect(constants.RouteAdminUpgrades)
	}

	release, ok := cache.AcquireLock(fmt.Sprintf("lock:delete:%d", businessID), 15*time.Second)
	if !ok {
		fm := fiber.Map{
			"type":    "error",
			"message": "This deletion is already being processed",
		}
		return flash.WithError(c, fm).Redirect(constants.RouteAdminUpgrades)
	}
	defer release()

	if err := ac.repos.Business.Delete(businessID); err != nil {
		fiberlog.Errorf("[Admin] Failed to delete listing %d: %v", businessID, err)
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete the listing",
		}
		return flash.WithError(c, fm).Redirect(constants.RouteAdminUpgrades)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Listing deleted",
	}
	return flash.WithSuccess(c, fm).Redirect(constants.RouteAdminUpgrades)
}

// HandleEditListing hands the operator over to the external editing surface
func (ac *AdminPendingController) HandleEditListing(c *fiber.Ctx) error {
	if _, err := parseIDParam(c); err != nil {
		return c.Redirect(constants.RouteAdminUpgrades)
	}
	return c.Redirect(fmt.Sprintf("%s/%s", ListingEditBaseURL(), c.Params("id")))
}

// ListingEditBaseURL returns the base URL of the external listing editor
func ListingEditBaseURL() string {
	return strings.TrimRight(env.GetEnv("LISTING_EDIT_BASE_URL", "https://admin.nearbiz.example/listings/edit"), "/")
}
