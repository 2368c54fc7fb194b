package models

import (
	"time"

	"postboost-backend/internal/common/money"
)

// Settings is the singleton pricing configuration read by the sponsorship and
// withdrawal operations and edited only from the admin console.
type Settings struct {
	// ViewPriceCents is the price of one bundle of purchased views.
	ViewPriceCents money.Cents `json:"view_price_cents" example:"100"`
	// ViewsPerBundle is how many views one bundle buys. Defaults give
	// $1.00 -> 1000 views.
	ViewsPerBundle     int64       `json:"views_per_bundle" example:"1000"`
	MinWithdrawalCents money.Cents `json:"min_withdrawal_cents" example:"1000"`
	PayoutAddress      string      `json:"payout_address,omitempty"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// SettingsPatch is a partial admin edit; nil fields are left unchanged.
type SettingsPatch struct {
	ViewPriceCents     *money.Cents `json:"view_price_cents,omitempty"`
	ViewsPerBundle     *int64       `json:"views_per_bundle,omitempty"`
	MinWithdrawalCents *money.Cents `json:"min_withdrawal_cents,omitempty"`
	PayoutAddress      *string      `json:"payout_address,omitempty"`
}

// ViewsFor converts an ad spend to the number of purchased views.
func (s *Settings) ViewsFor(amount money.Cents) int64 {
	if s.ViewPriceCents <= 0 || s.ViewsPerBundle <= 0 {
		return 0
	}
	return int64(amount) * s.ViewsPerBundle / int64(s.ViewPriceCents)
}
