package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/nearbiz/backoffice/app/models"
	"github.com/nearbiz/backoffice/app/repository"
	"github.com/nearbiz/backoffice/internal/pkg/cache"
	"github.com/nearbiz/backoffice/internal/pkg/env"
	"github.com/nearbiz/backoffice/internal/pkg/receiptstore"
	"github.com/nearbiz/backoffice/internal/pkg/upload"
)

// ReceiptStore is the slice of the receipt storage client the submission
// workflow needs. Satisfied by *receiptstore.Client.
type ReceiptStore interface {
	ObjectKey(businessID uint, fileExtension string) string
	Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type upgradeForm struct {
	Amount float64 `validate:"required,gt=0"`
}

type upgradeWorkflow struct {
	c            *fiber.Ctx
	businessRepo repository.BusinessRepository
	receipts     ReceiptStore
}

var errUpgradeResponseHandled = errors.New("upgrade response already handled")

var validate = validator.New()

// HandleUpgradeForm renders the upgrade submission form for a listing
func HandleUpgradeForm(c *fiber.Ctx) error {
	businessID, err := parseIDParam(c)
	if err != nil {
		return c.Redirect("/")
	}

	business, err := repository.GetGlobalFactory().GetBusinessRepository().GetByID(businessID)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Listing not found",
		}
		return flash.WithError(c, fm).Redirect("/")
	}

	return c.Render("upgrade_form", fiber.Map{
		"Title":        "Upgrade listing",
		"BusinessID":   business.ID,
		"BusinessName": business.Name,
		"Flash":        flash.Get(c),
	})
}

// HandleUpgradeSubmit processes one upgrade submission
func HandleUpgradeSubmit(c *fiber.Ctx) error {
	return newUpgradeWorkflow(c).run()
}

func newUpgradeWorkflow(c *fiber.Ctx) *upgradeWorkflow {
	w := &upgradeWorkflow{
		c:            c,
		businessRepo: repository.GetGlobalFactory().GetBusinessRepository(),
	}
	if cli := receiptstore.GetClient(); cli != nil {
		w.receipts = cli
	}
	return w
}

func (w *upgradeWorkflow) run() error {
	businessID, err := parseIDParam(w.c)
	if err != nil {
		return w.c.Redirect("/")
	}
	formPath := fmt.Sprintf("/upgrade/%d", businessID)

	// One submission per listing at a time
	release, ok := cache.AcquireLock(fmt.Sprintf("lock:upgrade:%d", businessID), 30*time.Second)
	if !ok {
		return respondActionError(w.c, fiber.StatusConflict,
			"A submission for this listing is already being processed", formPath)
	}
	defer release()

	form, amount, file, err := w.parseSubmissionForm(formPath)
	if err != nil {
		if errors.Is(err, errUpgradeResponseHandled) {
			return nil
		}
		return err
	}
	defer form.RemoveAll()

	fileExt, contentType, err := w.validateReceipt(file, formPath)
	if err != nil {
		if errors.Is(err, errUpgradeResponseHandled) {
			return nil
		}
		return err
	}

	// Pre-fetch the current listing expiry; failure aborts before any mutation
	currentExpiry, err := w.businessRepo.GetListingExpiry(businessID)
	if err != nil {
		fiberlog.Errorf("[Upgrade] Failed to load listing %d before submission: %v", businessID, err)
		return respondActionError(w.c, fiber.StatusInternalServerError,
			"Submitting the receipt failed, please try again", formPath)
	}

	if w.receipts == nil {
		fiberlog.Error("[Upgrade] Receipt storage is not available")
		return respondActionError(w.c, fiber.StatusServiceUnavailable,
			"Submitting the receipt failed, please try again", formPath)
	}

	src, err := file.Open()
	if err != nil {
		fiberlog.Errorf("[Upgrade] Error opening receipt file: %v", err)
		return respondActionError(w.c, fiber.StatusInternalServerError,
			"Submitting the receipt failed, please try again", formPath)
	}
	defer src.Close()

	objectKey := w.receipts.ObjectKey(businessID, fileExt)
	receiptURL, err := w.receipts.Upload(context.Background(), objectKey, src, file.Size, contentType)
	if err != nil {
		fiberlog.Errorf("[Upgrade] Receipt upload failed for listing %d: %v", businessID, err)
		return respondActionError(w.c, fiber.StatusInternalServerError,
			"Submitting the receipt failed, please try again", formPath)
	}

	now := time.Now()
	addonExpiry := models.AddonExpiry(now)

	fields := map[string]interface{}{
		"receipt_url":       receiptURL,
		"payment_status":    models.PaymentStatusToBeConfirmed,
		"payment_amount":    amount,
		"last_payment_date": now,
		"odoo_expired_date": addonExpiry,
		"pos_website":       true,
	}
	// The listing expiry is only touched when it already lapsed
	if newExpiry, extend := models.NextListingExpiry(currentExpiry, now); extend {
		fields["listing_expired_date"] = newExpiry
	}

	if err := w.businessRepo.ApplyUpgrade(businessID, fields); err != nil {
		fiberlog.Errorf("[Upgrade] Failed to apply upgrade for listing %d: %v", businessID, err)
		if delErr := w.receipts.Delete(context.Background(), objectKey); delErr != nil {
			fiberlog.Warnf("[Upgrade] Failed to cleanup uploaded receipt after DB error: %v", delErr)
		}
		return respondActionError(w.c, fiber.StatusInternalServerError,
			"Submitting the receipt failed, please try again", formPath)
	}

	return w.respondSuccess(addonExpiry)
}

// parseSubmissionForm reads and locally validates amount and receipt file.
// Validation failures never reach storage or the database.
func (w *upgradeWorkflow) parseSubmissionForm(formPath string) (*multipart.Form, float64, *multipart.FileHeader, error) {
	form, err := w.c.MultipartForm()
	if err != nil {
		fiberlog.Errorf("[Upgrade] Error parsing multipart form: %v", err)
		return nil, 0, nil, markUpgradeHandled(respondActionError(w.c, fiber.StatusBadRequest,
			"Please fill in the amount and select a receipt", formPath))
	}

	amountRaw := strings.TrimSpace(w.c.FormValue("amount"))
	files := form.File["receipt"]
	if amountRaw == "" || len(files) == 0 {
		return nil, 0, nil, markUpgradeHandled(respondActionError(w.c, fiber.StatusBadRequest,
			"Please fill in the amount and select a receipt", formPath))
	}

	amount, err := strconv.ParseFloat(amountRaw, 64)
	if err != nil {
		return nil, 0, nil, markUpgradeHandled(respondActionError(w.c, fiber.StatusBadRequest,
			"The amount must be a number", formPath))
	}
	if err := validate.Struct(upgradeForm{Amount: amount}); err != nil {
		return nil, 0, nil, markUpgradeHandled(respondActionError(w.c, fiber.StatusBadRequest,
			"The amount must be greater than zero", formPath))
	}

	return form, amount, files[0], nil
}

// validateReceipt sniffs the first bytes of the file against the receipt whitelist
func (w *upgradeWorkflow) validateReceipt(file *multipart.FileHeader, formPath string) (string, string, error) {
	fileExt := strings.ToLower(filepath.Ext(file.Filename))

	pre, err := file.Open()
	if err != nil {
		fiberlog.Errorf("[Upgrade] Error opening receipt for sniff: %v", err)
		return "", "", markUpgradeHandled(respondActionError(w.c, fiber.StatusInternalServerError,
			"Submitting the receipt failed, please try again", formPath))
	}
	head := make([]byte, 512)
	n, _ := io.ReadFull(pre, head)
	if n > 0 {
		head = head[:n]
	}
	_ = pre.Close()

	if _, err := upload.ValidateReceiptBySniff(file.Filename, head); err != nil {
		return "", "", markUpgradeHandled(respondActionError(w.c, fiber.StatusUnsupportedMediaType,
			err.Error(), formPath))
	}

	return fileExt, upload.ContentTypeForExt(fileExt), nil
}

// respondSuccess either shows the confirmation screen with the computed
// add-on expiry or flashes and redirects (the auto-close behavior). Which of
// the two is a deployment choice.
func (w *upgradeWorkflow) respondSuccess(addonExpiry time.Time) error {
	if confirmationViewEnabled() {
		return w.c.Render("upgrade_success", fiber.Map{
			"Title":           "Receipt submitted",
			"OdooExpiredDate": addonExpiry.Format("2006-01-02"),
		})
	}

	flash.WithSuccess(w.c, fiber.Map{
		"type":    "success",
		"message": "Receipt submitted. We will confirm your payment shortly.",
	})
	if isHTMXRequest(w.c) {
		w.c.Set("HX-Redirect", "/")
		return w.c.SendString("Receipt submitted")
	}
	return w.c.Redirect("/")
}

func confirmationViewEnabled() bool {
	return env.GetEnv("UPGRADE_CONFIRMATION_ENABLED", "true") == "true"
}

func markUpgradeHandled(err error) error {
	if err != nil {
		return err
	}
	return errUpgradeResponseHandled
}
