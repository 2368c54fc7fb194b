package repository

import (
	"context"
	"errors"

	"postboost-backend/internal/features/ledger/models"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository is the storage boundary for the append-only
// transaction log.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Transaction, error)
	ListPendingWithdrawals(ctx context.Context) ([]*models.Transaction, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
