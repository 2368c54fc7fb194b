package repository

import (
	"context"
	"errors"

	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/account/models"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// AccountRepository is the storage boundary for profiles. Balance mutations
// are atomic conditional updates so concurrent settlements cannot lose a
// credit or debit inside one store.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	List(ctx context.Context, limit, offset int) ([]*models.Account, error)

	// CreditBalance adds amount to the account balance and returns the new
	// balance.
	CreditBalance(ctx context.Context, id string, amount money.Cents) (money.Cents, error)

	// DebitBalance subtracts amount from the account balance, failing with
	// ErrInsufficientBalance when the balance would go negative.
	DebitBalance(ctx context.Context, id string, amount money.Cents) (money.Cents, error)
}
