package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboost-backend/internal/features/post/repository/memory"
	"postboost-backend/internal/platform/textgen"
)

func TestGrowthServiceStartStop(t *testing.T) {
	posts := NewPostService(memory.NewMemoryRepository(), textgen.New("", ""))

	growth := NewGrowthService(posts, "@every 1h")
	require.NoError(t, growth.Start())
	growth.Stop()
}

func TestGrowthServiceInvalidSpec(t *testing.T) {
	posts := NewPostService(memory.NewMemoryRepository(), textgen.New("", ""))

	growth := NewGrowthService(posts, "not a cron spec")
	assert.Error(t, growth.Start())
}

func TestGrowthServiceStopBeforeStart(t *testing.T) {
	posts := NewPostService(memory.NewMemoryRepository(), textgen.New("", ""))

	// Must not panic.
	NewGrowthService(posts, "@every 1h").Stop()
}
