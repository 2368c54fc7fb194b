package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboost-backend/internal/common/money"
	"postboost-backend/internal/features/settings/models"
	"postboost-backend/internal/features/settings/repository/memory"
)

func newService(t *testing.T) SettingsService {
	t.Helper()

	return NewSettingsService(memory.NewMemoryRepository(), nil, models.Settings{
		ViewPriceCents:     100,
		ViewsPerBundle:     1000,
		MinWithdrawalCents: 1000,
	})
}

func ptrCents(v money.Cents) *money.Cents { return &v }
func ptrInt64(v int64) *int64             { return &v }
func ptrString(v string) *string          { return &v }

func TestGetSeedsDefaults(t *testing.T) {
	svc := newService(t)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, money.Cents(100), settings.ViewPriceCents)
	assert.Equal(t, int64(1000), settings.ViewsPerBundle)
	assert.Equal(t, money.Cents(1000), settings.MinWithdrawalCents)
}

func TestUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	updated, err := svc.Update(ctx, models.SettingsPatch{
		ViewPriceCents: ptrCents(200),
		ViewsPerBundle: ptrInt64(500),
	})
	require.NoError(t, err)
	assert.Equal(t, money.Cents(200), updated.ViewPriceCents)
	assert.Equal(t, int64(500), updated.ViewsPerBundle)
	// Untouched fields keep their value.
	assert.Equal(t, money.Cents(1000), updated.MinWithdrawalCents)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(200), got.ViewPriceCents)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, models.SettingsPatch{ViewPriceCents: ptrCents(0)})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.Update(ctx, models.SettingsPatch{ViewsPerBundle: ptrInt64(-1)})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.Update(ctx, models.SettingsPatch{MinWithdrawalCents: ptrCents(-1)})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	_, err = svc.Update(ctx, models.SettingsPatch{PayoutAddress: ptrString("not-an-address")})
	assert.ErrorIs(t, err, ErrInvalidSettings)

	// Nothing was persisted by the failed updates.
	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, money.Cents(100), got.ViewPriceCents)
}

func TestUpdatePayoutAddress(t *testing.T) {
	svc := newService(t)

	addr := "EQD4FPq-PRD4YtG87wgL7AErgQwHUMFQ-JxyYw8jzBPhqsm3"
	updated, err := svc.Update(context.Background(), models.SettingsPatch{PayoutAddress: ptrString(addr)})
	require.NoError(t, err)
	assert.Equal(t, addr, updated.PayoutAddress)
}

func TestViewsFor(t *testing.T) {
	settings := &models.Settings{ViewPriceCents: 100, ViewsPerBundle: 1000}

	assert.Equal(t, int64(1000), settings.ViewsFor(100))
	assert.Equal(t, int64(500), settings.ViewsFor(50))
	assert.Equal(t, int64(10), settings.ViewsFor(1))
	assert.Equal(t, int64(2500), settings.ViewsFor(250))
}
