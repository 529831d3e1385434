package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/nearbiz/backoffice/app/models"
)

// businessRepository implements the BusinessRepository interface
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository instance
func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

// Create creates a new business listing in the database
func (r *businessRepository) Create(business *models.Business) error {
	return r.db.Create(business).Error
}

// GetByID retrieves a business listing by its ID
func (r *businessRepository) GetByID(id uint) (*models.Business, error) {
	var business models.Business
	err := r.db.First(&business, id).Error
	if err != nil {
		return nil, err
	}
	return &business, nil
}

// GetListingExpiry reads only the current listing expiry of a business. The
// submission workflow needs it before deciding whether to extend.
func (r *businessRepository) GetListingExpiry(id uint) (*time.Time, error) {
	var business models.Business
	err := r.db.Select("listing_expired_date").First(&business, id).Error
	if err != nil {
		return nil, err
	}
	return business.ListingExpiredDate, nil
}

// ApplyUpgrade writes the payment fields of one upgrade submission as a
// single combined UPDATE. The caller controls which columns are present, so
// conditional fields (listing expiry) are simply omitted from the map.
func (r *businessRepository) ApplyUpgrade(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Business{}).Where("id = ?", id).Updates(fields).Error
}

// UpdatePaymentStatus sets the payment status of a single listing
func (r *businessRepository) UpdatePaymentStatus(id uint, status string) error {
	return r.db.Model(&models.Business{}).Where("id = ?", id).
		Update("payment_status", status).Error
}

// Delete permanently removes a business listing. Business has no soft-delete
// column, so this is a hard delete.
func (r *businessRepository) Delete(id uint) error {
	return r.db.Delete(&models.Business{}, id).Error
}

// ListPendingConfirmation returns all listings awaiting payment confirmation
// with the owner email resolved in the same query. Row order is whatever the
// database returns; the admin console applies no explicit sort.
func (r *businessRepository) ListPendingConfirmation() ([]PendingBusiness, error) {
	var rows []PendingBusiness
	err := r.db.Model(&models.Business{}).
		Select("businesses.id, businesses.name, businesses.owner_id, users.email AS owner_email, "+
			"businesses.receipt_url, businesses.payment_status, businesses.payment_amount, "+
			"businesses.last_payment_date, businesses.listing_expired_date, businesses.odoo_expired_date, "+
			"businesses.pos_website").
		Joins("LEFT JOIN users ON users.id = businesses.owner_id").
		Where("businesses.payment_status = ?", models.PaymentStatusToBeConfirmed).
		Scan(&rows).Error
	return rows, err
}

// Count returns the total number of business listings
func (r *businessRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Business{}).Count(&count).Error
	return count, err
}
