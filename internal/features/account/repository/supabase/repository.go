package supabase

import (
	"context"
	"fmt"
	"time"

	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/account/models"
	"postboost-backend/internal/features/account/repository"
	"postboost-backend/internal/platform/supabase"
)

const profilesTable = "profiles"

// profileRow mirrors the profiles table.
type profileRow struct {
	ID           string    `json:"id"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url"`
	BalanceCents int64     `json:"balance_cents"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r profileRow) toModel() *models.Account {
	return &models.Account{
		ID:           r.ID,
		Role:         r.Role,
		Status:       r.Status,
		DisplayName:  r.DisplayName,
		AvatarURL:    r.AvatarURL,
		BalanceCents: money.Cents(r.BalanceCents),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromModel(a *models.Account) profileRow {
	return profileRow{
		ID:           a.ID,
		Role:         a.Role,
		Status:       a.Status,
		DisplayName:  a.DisplayName,
		AvatarURL:    a.AvatarURL,
		BalanceCents: int64(a.BalanceCents),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

// NewSupabaseRepository returns an AccountRepository backed by the hosted
// store. Row-level access policies are enforced by the store, not here.
func NewSupabaseRepository(client *supabase.Client) repository.AccountRepository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, account *models.Account) error {
	resp, err := r.client.From(profilesTable).ExecuteInsert(ctx, fromModel(account), "id")
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *supabaseRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	resp, err := r.client.From(profilesTable).Select("*").Eq("id", id).Single().Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if resp.IsNotFound() {
		return nil, repository.ErrAccountNotFound
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var row profileRow
	if err := resp.JSON(&row); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return row.toModel(), nil
}

func (r *supabaseRepository) Update(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	patch := map[string]any{
		"role":         account.Role,
		"status":       account.Status,
		"display_name": account.DisplayName,
		"avatar_url":   account.AvatarURL,
		"updated_at":   account.UpdatedAt,
	}

	resp, err := r.client.From(profilesTable).Eq("id", account.ID).ExecuteUpdate(ctx, patch)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	var rows []profileRow
	if err := resp.JSON(&rows); err == nil && len(rows) == 0 {
		return repository.ErrAccountNotFound
	}
	return nil
}

func (r *supabaseRepository) List(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	resp, err := r.client.From(profilesTable).
		Select("*").
		Order("created_at", false).
		Limit(limit).
		Offset(offset).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var rows []profileRow
	if err := resp.JSON(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	accounts := make([]*models.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toModel())
	}
	return accounts, nil
}

// CreditBalance delegates to the credit_balance database function so the
// increment is applied inside the store.
func (r *supabaseRepository) CreditBalance(ctx context.Context, id string, amount money.Cents) (money.Cents, error) {
	return r.adjustBalance(ctx, "credit_balance", id, amount)
}

// DebitBalance delegates to the debit_balance database function, which
// refuses to take the balance negative. The function returns -1 when the
// balance is insufficient and null when the account row is missing.
func (r *supabaseRepository) DebitBalance(ctx context.Context, id string, amount money.Cents) (money.Cents, error) {
	return r.adjustBalance(ctx, "debit_balance", id, amount)
}

func (r *supabaseRepository) adjustBalance(ctx context.Context, fn, id string, amount money.Cents) (money.Cents, error) {
	resp, err := r.client.RPC(ctx, fn, map[string]any{
		"p_account_id": id,
		"p_amount":     int64(amount),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", fn, err)
	}
	if err := resp.Error(); err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", fn, err)
	}

	var newBalance *int64
	if err := resp.JSON(&newBalance); err != nil {
		return 0, fmt.Errorf("failed to decode %s result: %w", fn, err)
	}
	if newBalance == nil {
		return 0, repository.ErrAccountNotFound
	}
	if *newBalance < 0 {
		return 0, repository.ErrInsufficientBalance
	}
	return money.Cents(*newBalance), nil
}
