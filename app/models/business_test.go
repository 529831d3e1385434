package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddonExpiry(t *testing.T) {
	submitted := time.Date(2026, 8, 14, 15, 45, 30, 0, time.UTC)

	got := AddonExpiry(submitted)

	assert.Equal(t, time.Date(2026, 9, 13, 15, 45, 30, 0, time.UTC), got)
}

func TestNextListingExpiry(t *testing.T) {
	submitted := time.Date(2026, 8, 14, 15, 45, 30, 0, time.UTC)
	past := submitted.AddDate(0, -1, 0)
	future := submitted.AddDate(0, 1, 0)

	tests := []struct {
		name       string
		current    *time.Time
		wantExtend bool
	}{
		{name: "no prior expiry", current: nil, wantExtend: false},
		{name: "still active", current: &future, wantExtend: false},
		{name: "exactly at submission time", current: &submitted, wantExtend: false},
		{name: "already lapsed", current: &past, wantExtend: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, extend := NextListingExpiry(tt.current, submitted)
			assert.Equal(t, tt.wantExtend, extend)
			if !tt.wantExtend {
				assert.True(t, got.IsZero())
				return
			}
			// 365 days ahead, truncated to the calendar date
			require.Equal(t, time.Date(2027, 8, 14, 0, 0, 0, 0, time.UTC), got)
		})
	}
}

func TestBusinessIsPendingConfirmation(t *testing.T) {
	b := &Business{PaymentStatus: PaymentStatusToBeConfirmed}
	assert.True(t, b.IsPendingConfirmation())

	b.PaymentStatus = PaymentStatusConfirmed
	assert.False(t, b.IsPendingConfirmation())

	b.PaymentStatus = PaymentStatusNone
	assert.False(t, b.IsPendingConfirmation())
}

func TestBusinessValidate(t *testing.T) {
	valid := &Business{Name: "Cafe Aurora", OwnerID: 1, PaymentStatus: PaymentStatusNone}
	assert.NoError(t, valid.Validate())

	shortName := &Business{Name: "x", OwnerID: 1, PaymentStatus: PaymentStatusNone}
	assert.Error(t, shortName.Validate())

	badStatus := &Business{Name: "Cafe Aurora", OwnerID: 1, PaymentStatus: "paid"}
	assert.Error(t, badStatus.Validate())
}
