// Package memory is the in-process stand-in for the hosted store. It backs
// the local build variant and the service tests, so the same settlement
// logic runs against either backend.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/account/models"
	"postboost-backend/internal/features/account/repository"
)

type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

// NewMemoryRepository returns an empty in-memory AccountRepository.
func NewMemoryRepository() repository.AccountRepository {
	return &memoryRepository{accounts: make(map[string]*models.Account)}
}

func (r *memoryRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (r *memoryRepository) Update(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = time.Now().UTC()
	clone := *account
	// Balance is owned by the credit/debit operations.
	clone.BalanceCents = existing.BalanceCents
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memoryRepository) List(_ context.Context, limit, offset int) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*models.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		clone := *account
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*models.Account{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryRepository) CreditBalance(_ context.Context, id string, amount money.Cents) (money.Cents, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return 0, repository.ErrAccountNotFound
	}
	account.BalanceCents = account.BalanceCents.Add(amount)
	account.UpdatedAt = time.Now().UTC()
	return account.BalanceCents, nil
}

func (r *memoryRepository) DebitBalance(_ context.Context, id string, amount money.Cents) (money.Cents, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return 0, repository.ErrAccountNotFound
	}

	newBalance, err := account.BalanceCents.Sub(amount)
	if err != nil {
		return 0, repository.ErrInsufficientBalance
	}
	account.BalanceCents = newBalance
	account.UpdatedAt = time.Now().UTC()
	return account.BalanceCents, nil
}
