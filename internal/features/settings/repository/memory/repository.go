// Package memory keeps the settings singleton in process.
package memory

import (
	"context"
	"sync"

	"postboost-backend/internal/features/settings/models"
	"postboost-backend/internal/features/settings/repository"
)

type memoryRepository struct {
	mu       sync.Mutex
	settings *models.Settings
}

// NewMemoryRepository returns an empty in-memory SettingsRepository.
func NewMemoryRepository() repository.SettingsRepository {
	return &memoryRepository{}
}

func (r *memoryRepository) Get(_ context.Context) (*models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil {
		return nil, repository.ErrSettingsNotFound
	}
	clone := *r.settings
	return &clone, nil
}

func (r *memoryRepository) Save(_ context.Context, settings *models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *settings
	r.settings = &clone
	return nil
}
