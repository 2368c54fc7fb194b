package supabase

import (
	"context"
	"fmt"
	"time"

	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/settings/models"
	"postboost-backend/internal/features/settings/repository"
	"postboost-backend/internal/platform/supabase"
)

const settingsTable = "settings"

// The settings table holds exactly one row with this id.
const singletonID = 1

type settingsRow struct {
	ID                 int       `json:"id"`
	ViewPriceCents     int64     `json:"view_price_cents"`
	ViewsPerBundle     int64     `json:"views_per_bundle"`
	MinWithdrawalCents int64     `json:"min_withdrawal_cents"`
	PayoutAddress      string    `json:"payout_address"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type supabaseRepository struct {
	client *supabase.Client
}

// NewSupabaseRepository returns a SettingsRepository backed by the hosted
// store.
func NewSupabaseRepository(client *supabase.Client) repository.SettingsRepository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Get(ctx context.Context) (*models.Settings, error) {
	resp, err := r.client.From(settingsTable).Select("*").Eq("id", singletonID).Single().Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if resp.IsNotFound() {
		return nil, repository.ErrSettingsNotFound
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var row settingsRow
	if err := resp.JSON(&row); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &models.Settings{
		ViewPriceCents:     money.Cents(row.ViewPriceCents),
		ViewsPerBundle:     row.ViewsPerBundle,
		MinWithdrawalCents: money.Cents(row.MinWithdrawalCents),
		PayoutAddress:      row.PayoutAddress,
		UpdatedAt:          row.UpdatedAt,
	}, nil
}

func (r *supabaseRepository) Save(ctx context.Context, settings *models.Settings) error {
	row := settingsRow{
		ID:                 singletonID,
		ViewPriceCents:     int64(settings.ViewPriceCents),
		ViewsPerBundle:     settings.ViewsPerBundle,
		MinWithdrawalCents: int64(settings.MinWithdrawalCents),
		PayoutAddress:      settings.PayoutAddress,
		UpdatedAt:          settings.UpdatedAt,
	}

	resp, err := r.client.From(settingsTable).ExecuteInsert(ctx, row, "id")
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
