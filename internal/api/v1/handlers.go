package apiv1

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/nearbiz/backoffice/app/models"
	"github.com/nearbiz/backoffice/app/repository"
	"github.com/nearbiz/backoffice/internal/pkg/cache"
)

// Pong is the ping response payload
type Pong struct {
	Ping string `json:"ping"`
}

// APIServer implements the JSON surface of the back-office
type APIServer struct {
	repos *repository.Repositories
}

// NewAPIServer creates a new API server instance
func NewAPIServer(repos *repository.Repositories) *APIServer {
	return &APIServer{
		repos: repos,
	}
}

// RegisterHandlers attaches all v1 routes to the given router group
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)
	r.Get("/pending-upgrades", s.GetPendingUpgrades)
	r.Post("/upgrades/:id/confirm", s.PostConfirmUpgrade)
	r.Delete("/businesses/:id", s.DeleteBusiness)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetPendingUpgrades returns all listings awaiting payment confirmation,
// owner email included
func (s *APIServer) GetPendingUpgrades(c *fiber.Ctx) error {
	rows, err := s.repos.Business.ListPendingConfirmation()
	if err != nil {
		fiberlog.Errorf("[API] Failed to load pending upgrades: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to load pending upgrades",
		})
	}

	return c.JSON(fiber.Map{
		"pending": rows,
		"count":   len(rows),
	})
}

// PostConfirmUpgrade confirms the payment of a single listing
func (s *APIServer) PostConfirmUpgrade(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid listing id",
		})
	}

	// Shares the lock key with the admin console so the same confirmation
	// cannot run twice across surfaces
	release, ok := cache.AcquireLock(fmt.Sprintf("lock:confirm:%d", id), 15*time.Second)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "This confirmation is already being processed",
		})
	}
	defer release()

	if _, err := s.repos.Business.GetByID(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "not_found",
				"message": "Listing not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to load listing",
		})
	}

	if err := s.repos.Business.UpdatePaymentStatus(uint(id), models.PaymentStatusConfirmed); err != nil {
		fiberlog.Errorf("[API] Failed to confirm payment for listing %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to confirm the payment",
		})
	}

	return c.JSON(fiber.Map{
		"id":             id,
		"payment_status": models.PaymentStatusConfirmed,
	})
}

// DeleteBusiness permanently removes a listing
func (s *APIServer) DeleteBusiness(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid listing id",
		})
	}

	release, ok := cache.AcquireLock(fmt.Sprintf("lock:delete:%d", id), 15*time.Second)
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "conflict",
			"message": "This deletion is already being processed",
		})
	}
	defer release()

	if err := s.repos.Business.Delete(uint(id)); err != nil {
		fiberlog.Errorf("[API] Failed to delete listing %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Failed to delete the listing",
		})
	}

	return c.JSON(fiber.Map{
		"id":      id,
		"deleted": true,
	})
}
