package supabase

import (
	"context"
	"fmt"
	"time"

	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/ledger/models"
	"postboost-backend/internal/features/ledger/repository"
	"postboost-backend/internal/platform/supabase"
)

const transactionsTable = "transactions"

type transactionRow struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	Network     string    `json:"network"`
	Address     string    `json:"address"`
	PostID      string    `json:"post_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r transactionRow) toModel() *models.Transaction {
	return &models.Transaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Kind:        r.Kind,
		AmountCents: money.Cents(r.AmountCents),
		Status:      r.Status,
		Network:     r.Network,
		Address:     r.Address,
		PostID:      r.PostID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func fromModel(t *models.Transaction) transactionRow {
	return transactionRow{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Kind:        t.Kind,
		AmountCents: int64(t.AmountCents),
		Status:      t.Status,
		Network:     t.Network,
		Address:     t.Address,
		PostID:      t.PostID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

// NewSupabaseRepository returns a TransactionRepository backed by the hosted
// store.
func NewSupabaseRepository(client *supabase.Client) repository.TransactionRepository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, tx *models.Transaction) error {
	resp, err := r.client.From(transactionsTable).ExecuteInsert(ctx, fromModel(tx), "")
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *supabaseRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	resp, err := r.client.From(transactionsTable).Select("*").Eq("id", id).Single().Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if resp.IsNotFound() {
		return nil, repository.ErrTransactionNotFound
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	var row transactionRow
	if err := resp.JSON(&row); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return row.toModel(), nil
}

func (r *supabaseRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*models.Transaction, error) {
	resp, err := r.client.From(transactionsTable).
		Select("*").
		Eq("account_id", accountID).
		Order("created_at", false).
		Limit(limit).
		Offset(offset).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return decodeRows(resp)
}

func (r *supabaseRepository) ListPendingWithdrawals(ctx context.Context) ([]*models.Transaction, error) {
	resp, err := r.client.From(transactionsTable).
		Select("*").
		Eq("kind", models.KindWithdrawal).
		Eq("status", models.StatusPending).
		Order("created_at", true).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending withdrawals: %w", err)
	}
	return decodeRows(resp)
}

func (r *supabaseRepository) UpdateStatus(ctx context.Context, id, status string) error {
	resp, err := r.client.From(transactionsTable).Eq("id", id).ExecuteUpdate(ctx, map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	var rows []transactionRow
	if err := resp.JSON(&rows); err == nil && len(rows) == 0 {
		return repository.ErrTransactionNotFound
	}
	return nil
}

func decodeRows(resp *supabase.Response) ([]*models.Transaction, error) {
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var rows []transactionRow
	if err := resp.JSON(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txs := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.toModel())
	}
	return txs, nil
}
