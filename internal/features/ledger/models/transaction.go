package models

import (
	"time"

	"postboost-backend/internal/common/money"
)

const (
	KindDeposit    = "deposit"
	KindWithdrawal = "withdrawal"
	KindAdSpend    = "ad_spend"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// Transaction is one append-only ledger event. Only withdrawal status ever
// mutates, exactly once, when an administrator settles it.
type Transaction struct {
	ID          string      `json:"id"`
	AccountID   string      `json:"account_id"`
	Kind        string      `json:"kind" enums:"deposit,withdrawal,ad_spend"`
	AmountCents money.Cents `json:"amount_cents"`
	Status      string      `json:"status" enums:"pending,completed,rejected"`
	Network     string      `json:"network,omitempty" example:"ton"`
	Address     string      `json:"address,omitempty"`
	PostID      string      `json:"post_id,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsSettled reports whether the withdrawal has already been decided.
func (t *Transaction) IsSettled() bool {
	return t.Status != StatusPending
}

// SponsorshipResult reports what a sponsorship purchase did.
type SponsorshipResult struct {
	Transaction    *Transaction `json:"transaction"`
	NewBalance     money.Cents  `json:"new_balance_cents"`
	PurchasedViews int64        `json:"purchased_views"`
	ImmediateViews int64        `json:"immediate_views"`
}
