package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearbiz/backoffice/app/models"
	"github.com/nearbiz/backoffice/app/repository"
)

func newAdminTestApp(repo *fakeBusinessRepo, withViews bool) (*fiber.App, *AdminPendingController) {
	cfg := fiber.Config{}
	if withViews {
		cfg.Views = html.New("../../views", ".html")
	}
	app := fiber.New(cfg)
	ac := NewAdminPendingController(&repository.Repositories{Business: repo})
	return app, ac
}

func TestAdminConfirmPayment(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app, ac := newAdminTestApp(repo, false)
	app.Post("/admin/upgrades/confirm/:id", ac.HandleConfirmPayment)

	req := httptest.NewRequest(http.MethodPost, "/admin/upgrades/confirm/12", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/upgrades", resp.Header.Get("Location"))
	require.Equal(t, 1, repo.statusCalls)
	assert.Equal(t, uint(12), repo.statusID)
	assert.Equal(t, models.PaymentStatusConfirmed, repo.statusValue)
}

func TestAdminConfirmPayment_InvalidID(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app, ac := newAdminTestApp(repo, false)
	app.Post("/admin/upgrades/confirm/:id", ac.HandleConfirmPayment)

	req := httptest.NewRequest(http.MethodPost, "/admin/upgrades/confirm/not-a-number", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Zero(t, repo.statusCalls)
}

func TestAdminDeleteListing_RequiresConfirmation(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app, ac := newAdminTestApp(repo, false)
	app.Post("/admin/upgrades/delete/:id", ac.HandleDeleteListing)

	req := httptest.NewRequest(http.MethodPost, "/admin/upgrades/delete/12", strings.NewReader("confirm=false"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/upgrades", resp.Header.Get("Location"))
	assert.Zero(t, repo.deleteCalls, "a declined confirmation must not delete anything")
}

func TestAdminDeleteListing_Confirmed(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app, ac := newAdminTestApp(repo, false)
	app.Post("/admin/upgrades/delete/:id", ac.HandleDeleteListing)

	req := httptest.NewRequest(http.MethodPost, "/admin/upgrades/delete/12", strings.NewReader("confirm=true"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, 1, repo.deleteCalls)
	assert.Equal(t, uint(12), repo.deleteID)
}

func TestAdminEditListing_RedirectsToExternalEditor(t *testing.T) {
	t.Setenv("LISTING_EDIT_BASE_URL", "https://ops.example/listings/edit/")

	repo := &fakeBusinessRepo{}
	app, ac := newAdminTestApp(repo, false)
	app.Get("/admin/upgrades/edit/:id", ac.HandleEditListing)

	req := httptest.NewRequest(http.MethodGet, "/admin/upgrades/edit/12", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://ops.example/listings/edit/12", resp.Header.Get("Location"))
}

func TestAdminPendingList_RendersOwnerEmail(t *testing.T) {
	submitted := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	repo := &fakeBusinessRepo{
		pending: []repository.PendingBusiness{
			{
				ID:              12,
				Name:            "Cafe Aurora",
				OwnerID:         3,
				OwnerEmail:      "owner@example.com",
				ReceiptURL:      "https://cdn.example/receipts/12/abc.png",
				PaymentStatus:   models.PaymentStatusToBeConfirmed,
				PaymentAmount:   49.90,
				LastPaymentDate: &submitted,
			},
		},
	}
	app, ac := newAdminTestApp(repo, true)
	app.Get("/admin/upgrades", ac.HandlePendingList)

	req := httptest.NewRequest(http.MethodGet, "/admin/upgrades", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.pendingCalls)
	assert.Contains(t, string(body), "owner@example.com")
	assert.Contains(t, string(body), "Cafe Aurora")
	assert.Contains(t, string(body), "49.90")
}

func TestAdminPendingList_EmptyState(t *testing.T) {
	repo := &fakeBusinessRepo{pending: nil}
	app, ac := newAdminTestApp(repo, true)
	app.Get("/admin/upgrades", ac.HandlePendingList)

	req := httptest.NewRequest(http.MethodGet, "/admin/upgrades", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "No listings are waiting for payment confirmation")
	assert.NotContains(t, string(body), "<table>")
}
