package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Payment status values for a listing upgrade.
const (
	PaymentStatusNone          = "none"
	PaymentStatusToBeConfirmed = "to_be_confirmed"
	PaymentStatusConfirmed     = "confirmed"
)

// Durations granted by a successful upgrade submission.
const (
	AddonAccessDays    = 30
	ListingRenewalDays = 365
)

// Business is a marketplace listing. Upgrade submissions only touch the
// payment fields; the record itself is created by the main site. Admin delete
// is permanent, so no soft-delete column.
type Business struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"type:varchar(200)" json:"name" validate:"required,min=2,max=200"`
	OwnerID            uint       `gorm:"not null;index" json:"owner_id"`
	Owner              User       `gorm:"foreignKey:OwnerID" json:"-"`
	ReceiptURL         string     `gorm:"type:varchar(500);default:''" json:"receipt_url"`
	PaymentStatus      string     `gorm:"type:varchar(30);default:'none';index" json:"payment_status" validate:"oneof=none to_be_confirmed confirmed"`
	PaymentAmount      float64    `gorm:"type:decimal(10,2);default:0" json:"payment_amount"`
	LastPaymentDate    *time.Time `gorm:"type:timestamp;default:null" json:"last_payment_date"`
	ListingExpiredDate *time.Time `gorm:"type:timestamp;default:null" json:"listing_expired_date"`
	OdooExpiredDate    *time.Time `gorm:"type:timestamp;default:null" json:"odoo_expired_date"`
	PosWebsite         bool       `gorm:"default:false" json:"pos_website"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Business) Validate() error {
	v := validator.New()

	return v.Struct(b)
}

// IsPendingConfirmation reports whether the listing awaits admin confirmation
func (b *Business) IsPendingConfirmation() bool {
	return b.PaymentStatus == PaymentStatusToBeConfirmed
}

// AddonExpiry returns the bundled add-on ("POS+Website") access expiry for a
// submission made at the given time. Always recomputed, never accumulated.
func AddonExpiry(submittedAt time.Time) time.Time {
	return submittedAt.AddDate(0, 0, AddonAccessDays)
}

// NextListingExpiry decides whether the listing expiry must be extended for a
// submission made at the given time. An extension happens only when a prior
// expiry exists and already lies in the past. The new value is a calendar
// date without a time component.
func NextListingExpiry(current *time.Time, submittedAt time.Time) (time.Time, bool) {
	if current == nil || !current.Before(submittedAt) {
		return time.Time{}, false
	}
	d := submittedAt.AddDate(0, 0, ListingRenewalDays)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()), true
}
