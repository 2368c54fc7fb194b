package repository

import (
	"context"
	"errors"

	"postboost-backend/internal/features/settings/models"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository persists the singleton pricing configuration.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
}
