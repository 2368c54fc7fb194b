// Package memory keeps the transaction log in process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"postboost-backend/internal/features/ledger/models"
	"postboost-backend/internal/features/ledger/repository"
)

type memoryRepository struct {
	mu  sync.Mutex
	txs map[string]*models.Transaction
}

// NewMemoryRepository returns an empty in-memory TransactionRepository.
func NewMemoryRepository() repository.TransactionRepository {
	return &memoryRepository{txs: make(map[string]*models.Transaction)}
}

func (r *memoryRepository) Create(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *tx
	r.txs[tx.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return nil, repository.ErrTransactionNotFound
	}
	clone := *tx
	return &clone, nil
}

func (r *memoryRepository) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Transaction
	for _, tx := range r.txs {
		if tx.AccountID == accountID {
			clone := *tx
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []*models.Transaction{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryRepository) ListPendingWithdrawals(_ context.Context) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Transaction
	for _, tx := range r.txs {
		if tx.Kind == models.KindWithdrawal && tx.Status == models.StatusPending {
			clone := *tx
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.txs[id]
	if !ok {
		return repository.ErrTransactionNotFound
	}
	tx.Status = status
	tx.UpdatedAt = time.Now().UTC()
	return nil
}
