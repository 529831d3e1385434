package apiv1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nearbiz/backoffice/app/models"
	"github.com/nearbiz/backoffice/app/repository"
)

type fakeBusinessRepo struct {
	getErr      error
	statusErr   error
	statusCalls int
	statusID    uint
	statusValue string
	deleteErr   error
	deleteCalls int
	deleteID    uint
	pending     []repository.PendingBusiness
	pendingErr  error
}

func (r *fakeBusinessRepo) Create(*models.Business) error { return nil }

func (r *fakeBusinessRepo) GetByID(id uint) (*models.Business, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return &models.Business{ID: id, Name: "Cafe Aurora"}, nil
}

func (r *fakeBusinessRepo) GetListingExpiry(uint) (*time.Time, error) { return nil, nil }

func (r *fakeBusinessRepo) ApplyUpgrade(uint, map[string]interface{}) error { return nil }

func (r *fakeBusinessRepo) UpdatePaymentStatus(id uint, status string) error {
	r.statusCalls++
	r.statusID = id
	r.statusValue = status
	return r.statusErr
}

func (r *fakeBusinessRepo) Delete(id uint) error {
	r.deleteCalls++
	r.deleteID = id
	return r.deleteErr
}

func (r *fakeBusinessRepo) ListPendingConfirmation() ([]repository.PendingBusiness, error) {
	return r.pending, r.pendingErr
}

func (r *fakeBusinessRepo) Count() (int64, error) { return int64(len(r.pending)), nil }

func newTestApp(repo *fakeBusinessRepo) *fiber.App {
	app := fiber.New()
	s := NewAPIServer(&repository.Repositories{Business: repo})
	RegisterHandlers(app.Group("/api/v1"), s)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestGetPing(t *testing.T) {
	app := newTestApp(&fakeBusinessRepo{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var pong Pong
	decodeBody(t, resp, &pong)
	assert.Equal(t, "pong", pong.Ping)
}

func TestGetPendingUpgrades(t *testing.T) {
	repo := &fakeBusinessRepo{
		pending: []repository.PendingBusiness{
			{ID: 12, Name: "Cafe Aurora", OwnerEmail: "owner@example.com", PaymentStatus: models.PaymentStatusToBeConfirmed},
		},
	}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pending-upgrades", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Count   int                          `json:"count"`
		Pending []repository.PendingBusiness `json:"pending"`
	}
	decodeBody(t, resp, &payload)
	assert.Equal(t, 1, payload.Count)
	require.Len(t, payload.Pending, 1)
	assert.Equal(t, "owner@example.com", payload.Pending[0].OwnerEmail)
}

func TestGetPendingUpgrades_RepoFailure(t *testing.T) {
	app := newTestApp(&fakeBusinessRepo{pendingErr: errors.New("db gone")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/pending-upgrades", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestPostConfirmUpgrade(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/upgrades/12/confirm", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, 1, repo.statusCalls)
	assert.Equal(t, uint(12), repo.statusID)
	assert.Equal(t, models.PaymentStatusConfirmed, repo.statusValue)

	var payload struct {
		ID            uint   `json:"id"`
		PaymentStatus string `json:"payment_status"`
	}
	decodeBody(t, resp, &payload)
	assert.Equal(t, uint(12), payload.ID)
	assert.Equal(t, models.PaymentStatusConfirmed, payload.PaymentStatus)
}

func TestPostConfirmUpgrade_NotFound(t *testing.T) {
	repo := &fakeBusinessRepo{getErr: gorm.ErrRecordNotFound}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/upgrades/12/confirm", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Zero(t, repo.statusCalls)
}

func TestPostConfirmUpgrade_InvalidID(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/upgrades/abc/confirm", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, repo.statusCalls)
}

func TestDeleteBusiness(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/12", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, 1, repo.deleteCalls)
	assert.Equal(t, uint(12), repo.deleteID)

	var payload struct {
		ID      uint `json:"id"`
		Deleted bool `json:"deleted"`
	}
	decodeBody(t, resp, &payload)
	assert.True(t, payload.Deleted)
}

func TestDeleteBusiness_InvalidID(t *testing.T) {
	repo := &fakeBusinessRepo{}
	app := newTestApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, repo.deleteCalls)
}
