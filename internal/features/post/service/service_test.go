package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboost-backend/internal/features/post/models"
	postrepo "postboost-backend/internal/features/post/repository"
	"postboost-backend/internal/features/post/repository/memory"
	"postboost-backend/internal/platform/textgen"
)

func newService(t *testing.T) (PostService, postrepo.PostRepository) {
	t.Helper()

	repo := memory.NewMemoryRepository()
	// No API key configured, so demo seeding uses the static fallback.
	return NewPostService(repo, textgen.New("", "")), repo
}

func TestCreatePost(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "alice", post.AuthorID)
	assert.Equal(t, models.KindText, post.Kind)
	assert.NotEmpty(t, post.ID)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
}

func TestCreatePostLinkKind(t *testing.T) {
	svc, _ := newService(t)

	post, err := svc.CreatePost(context.Background(), "alice", "https://example.com/article")
	require.NoError(t, err)
	assert.Equal(t, models.KindLink, post.Kind)
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, "alice", "   ")
	assert.ErrorIs(t, err, ErrEmptyBody)

	_, err = svc.CreatePost(ctx, "alice", strings.Repeat("x", MaxBodyLength+1))
	assert.Error(t, err)
}

func TestReactCountsEveryTap(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "react to me")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.React(ctx, post.ID, models.ReactionLike))
	}
	require.NoError(t, svc.React(ctx, post.ID, models.ReactionHeart))
	require.NoError(t, svc.React(ctx, post.ID, models.ReactionRocket))

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Likes)
	assert.Equal(t, int64(1), got.Hearts)
	assert.Equal(t, int64(1), got.Rockets)
}

func TestReactInvalidKind(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "hello")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.React(ctx, post.ID, "wave"), ErrInvalidReaction)
	assert.ErrorIs(t, svc.React(ctx, "missing", models.ReactionLike), ErrPostNotFound)
}

func TestShare(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", "share me")
	require.NoError(t, err)

	require.NoError(t, svc.Share(ctx, post.ID))
	require.NoError(t, svc.Share(ctx, post.ID))

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Shares)
}

func TestListPostsNewestFirst(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	old := &models.Post{ID: "old", AuthorID: "a", Body: "old", Kind: models.KindText, CreatedAt: time.Now().Add(-time.Hour)}
	fresh := &models.Post{ID: "fresh", AuthorID: "a", Body: "fresh", Kind: models.KindText, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, fresh))

	posts, err := svc.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "fresh", posts[0].ID)
}

func TestSeedDemoPostsUsesFallback(t *testing.T) {
	svc, _ := newService(t)

	posts, err := svc.SeedDemoPosts(context.Background(), "admin", 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, post := range posts {
		assert.Equal(t, "admin", post.AuthorID)
		assert.NotEmpty(t, post.Body)
	}
}

func TestGrowthStepDrainsPendingViews(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	sponsored := &models.Post{
		ID:           "sponsored",
		AuthorID:     "a",
		Body:         "boosted",
		Kind:         models.KindText,
		Sponsored:    true,
		PendingViews: 100,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, sponsored))

	_, err := svc.GrowthStep(ctx)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "sponsored")
	require.NoError(t, err)
	// One tick surfaces 10% of the pending views plus up to maxOrganicViews.
	assert.Equal(t, int64(90), got.PendingViews)
	assert.GreaterOrEqual(t, got.Views, int64(10))
	assert.LessOrEqual(t, got.Views, int64(10+maxOrganicViews))
}

func TestGrowthStepDrainsPostsBeyondBatchWindow(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	// A sponsored post older than a full batch of newer posts must still
	// surface every purchased view.
	old := &models.Post{
		ID:           "old-sponsored",
		AuthorID:     "a",
		Body:         "paid for views",
		Kind:         models.KindText,
		Sponsored:    true,
		PendingViews: 800,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, old))

	for i := 0; i < growthBatchSize+10; i++ {
		require.NoError(t, repo.Create(ctx, &models.Post{
			ID:        fmt.Sprintf("filler-%d", i),
			AuthorID:  "a",
			Body:      "filler",
			Kind:      models.KindText,
			CreatedAt: time.Now(),
		}))
	}

	for i := 0; i < 200; i++ {
		_, err := svc.GrowthStep(ctx)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, "old-sponsored")
		require.NoError(t, err)
		if got.PendingViews == 0 {
			break
		}
	}

	got, err := repo.GetByID(ctx, "old-sponsored")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.PendingViews)
	assert.GreaterOrEqual(t, got.Views, int64(800))
}

func TestGrowthStepDrainsAtLeastOne(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	sponsored := &models.Post{
		ID:           "tail",
		AuthorID:     "a",
		Body:         "almost done",
		Kind:         models.KindText,
		Sponsored:    true,
		PendingViews: 3,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, sponsored))

	// Three ticks empty a 3-view remainder even though 10% rounds to zero.
	for i := 0; i < 3; i++ {
		_, err := svc.GrowthStep(ctx)
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, "tail")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.PendingViews)
	assert.GreaterOrEqual(t, got.Views, int64(3))
}
