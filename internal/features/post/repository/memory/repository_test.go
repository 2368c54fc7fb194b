package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboost-backend/internal/features/post/models"
	"postboost-backend/internal/features/post/repository"
)

func TestIncrementReactionErrors(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Post{
		ID:        "p1",
		AuthorID:  "a",
		Body:      "hello",
		Kind:      models.KindText,
		CreatedAt: time.Now(),
	}))

	require.NoError(t, repo.IncrementReaction(ctx, "p1", "likes"))

	// An existing post with a bad counter name is not a missing post.
	assert.ErrorIs(t, repo.IncrementReaction(ctx, "p1", "claps"), repository.ErrUnknownCounter)
	assert.ErrorIs(t, repo.IncrementReaction(ctx, "missing", "likes"), repository.ErrPostNotFound)
}

func TestListSponsoredWithPending(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	now := time.Now()
	posts := []*models.Post{
		{ID: "plain", Sponsored: false, PendingViews: 0, CreatedAt: now},
		{ID: "drained", Sponsored: true, PendingViews: 0, CreatedAt: now},
		{ID: "newer", Sponsored: true, PendingViews: 10, CreatedAt: now},
		{ID: "older", Sponsored: true, PendingViews: 500, CreatedAt: now.Add(-time.Hour)},
	}
	for _, post := range posts {
		require.NoError(t, repo.Create(ctx, post))
	}

	matched, err := repo.ListSponsoredWithPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	// Oldest first, only sponsored posts with a remainder.
	assert.Equal(t, "older", matched[0].ID)
	assert.Equal(t, "newer", matched[1].ID)

	limited, err := repo.ListSponsoredWithPending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "older", limited[0].ID)
}
