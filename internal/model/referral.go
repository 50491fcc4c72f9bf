package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor (vendedor) is a commissioned seller. Earnings accumulate when
// orders placed through one of their referral links complete.
type Vendor struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            uuid.UUID       `json:"user_id" db:"user_id"`
	CommissionPercent decimal.Decimal `json:"commission_percent" db:"commission_percent"`
	TotalEarnings     decimal.Decimal `json:"total_earnings" db:"total_earnings"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// Referral (referido) is a trackable link binding a vendor to an event.
type Referral struct {
	ID              uuid.UUID `json:"id" db:"id"`
	VendorID        uuid.UUID `json:"vendor_id" db:"vendor_id"`
	EventID         uuid.UUID `json:"event_id" db:"event_id"`
	CustomCode      string    `json:"custom_code" db:"custom_code"`
	ClickCount      int       `json:"click_count" db:"click_count"`
	ConversionCount int       `json:"conversion_count" db:"conversion_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	Vendor *Vendor `json:"vendor,omitempty" db:"-"`
}

// CommissionOn computes the vendor's cut of a completed order total.
func (v *Vendor) CommissionOn(total decimal.Decimal) decimal.Decimal {
	return total.Mul(v.CommissionPercent).Div(decimal.NewFromInt(100))
}
