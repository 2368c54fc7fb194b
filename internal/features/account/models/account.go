package models

import (
	"time"

	"postboost-backend/internal/common/money"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive = "active"
	StatusBanned = "banned"
)

// Account is a profile row in the backing store. The balance is mutated only
// by the settlement operations (deposit, withdrawal, sponsorship).
type Account struct {
	ID           string      `json:"id" example:"8f14e45f-ceea-4672-ab5c-02a9f0d0f0a1"`
	Role         string      `json:"role" example:"user" enums:"user,admin"`
	Status       string      `json:"status" example:"active" enums:"active,banned"`
	DisplayName  string      `json:"display_name" example:"johndoe"`
	AvatarURL    string      `json:"avatar_url,omitempty"`
	BalanceCents money.Cents `json:"balance_cents" example:"10000"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// IsAdmin reports whether the account has the administrator role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AccountPatch is an admin edit; nil fields are left unchanged.
type AccountPatch struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Role        *string `json:"role,omitempty" enums:"user,admin"`
	Status      *string `json:"status,omitempty" enums:"active,banned"`
}

// Session is an authenticated sign-in result.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int      `json:"expires_in,omitempty"`
	Account      *Account `json:"account"`
}

// ErrorResponse documents the error envelope for swagger.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   any    `json:"error"`
	Message string `json:"message,omitempty"`
}
