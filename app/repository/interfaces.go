package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/nearbiz/backoffice/app/models"
)

// BusinessRepository defines the interface for business-listing database operations
type BusinessRepository interface {
	Create(business *models.Business) error
	GetByID(id uint) (*models.Business, error)
	GetListingExpiry(id uint) (*time.Time, error)
	ApplyUpgrade(id uint, fields map[string]interface{}) error
	UpdatePaymentStatus(id uint, status string) error
	Delete(id uint) error
	ListPendingConfirmation() ([]PendingBusiness, error)
	Count() (int64, error)
}

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// PendingBusiness is one row of the pending-confirmation aggregation: the
// payment fields of a listing joined with its owner's email. The email is
// never stored on the business record, hence the dedicated query.
type PendingBusiness struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	OwnerID            uint       `json:"owner_id"`
	OwnerEmail         string     `json:"owner_email"`
	ReceiptURL         string     `json:"receipt_url"`
	PaymentStatus      string     `json:"payment_status"`
	PaymentAmount      float64    `json:"payment_amount"`
	LastPaymentDate    *time.Time `json:"last_payment_date"`
	ListingExpiredDate *time.Time `json:"listing_expired_date"`
	OdooExpiredDate    *time.Time `json:"odoo_expired_date"`
	PosWebsite         bool       `json:"pos_website"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	Business BusinessRepository
	User     UserRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Business: NewBusinessRepository(db),
		User:     NewUserRepository(db),
	}
}
