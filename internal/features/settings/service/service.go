package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboost-backend/internal/common/cache"
	"postboost-backend/internal/common/validation"
	"postboost-backend/internal/features/settings/models"
	"postboost-backend/internal/features/settings/repository"
)

var ErrInvalidSettings = errors.New("invalid settings value")

const (
	settingsCacheKey = "settings"
	settingsCacheTTL = time.Minute
)

// SettingsService is the single designated write path for the pricing
// configuration. Everything else reads through Get.
type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error)
}

type settingsService struct {
	repo     repository.SettingsRepository
	cache    *cache.CacheService
	defaults models.Settings
}

// NewSettingsService wires the settings service. defaults seeds the settings
// row when none exists yet; cache may be nil.
func NewSettingsService(repo repository.SettingsRepository, cacheService *cache.CacheService, defaults models.Settings) SettingsService {
	return &settingsService{repo: repo, cache: cacheService, defaults: defaults}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	if s.cache != nil {
		var cached models.Settings
		if err := s.cache.Get(ctx, settingsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		settings, err = s.seedDefaults(ctx)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, settingsCacheKey, settings, settingsCacheTTL)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if patch.ViewPriceCents != nil {
		if *patch.ViewPriceCents <= 0 {
			return nil, fmt.Errorf("%w: view price must be positive", ErrInvalidSettings)
		}
		settings.ViewPriceCents = *patch.ViewPriceCents
	}
	if patch.ViewsPerBundle != nil {
		if *patch.ViewsPerBundle <= 0 {
			return nil, fmt.Errorf("%w: views per bundle must be positive", ErrInvalidSettings)
		}
		settings.ViewsPerBundle = *patch.ViewsPerBundle
	}
	if patch.MinWithdrawalCents != nil {
		if *patch.MinWithdrawalCents < 0 {
			return nil, fmt.Errorf("%w: minimum withdrawal cannot be negative", ErrInvalidSettings)
		}
		settings.MinWithdrawalCents = *patch.MinWithdrawalCents
	}
	if patch.PayoutAddress != nil {
		if *patch.PayoutAddress != "" {
			if err := validation.ValidateAddress(validation.NetworkTON, *patch.PayoutAddress); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
			}
		}
		settings.PayoutAddress = *patch.PayoutAddress
	}
	settings.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, settingsCacheKey)
	}
	return settings, nil
}

func (s *settingsService) seedDefaults(ctx context.Context) (*models.Settings, error) {
	settings := s.defaults
	settings.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
