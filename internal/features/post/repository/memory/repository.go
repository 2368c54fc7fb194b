// Package memory keeps posts in process, standing in for the hosted store in
// the local build variant and in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"postboost-backend/internal/features/post/models"
	"postboost-backend/internal/features/post/repository"
)

type memoryRepository struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

// NewMemoryRepository returns an empty in-memory PostRepository.
func NewMemoryRepository() repository.PostRepository {
	return &memoryRepository{posts: make(map[string]*models.Post)}
}

func (r *memoryRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (r *memoryRepository) List(_ context.Context, limit, offset int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		clone := *post
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*models.Post{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryRepository) ListSponsoredWithPending(_ context.Context, limit int) ([]*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Post
	for _, post := range r.posts {
		if post.Sponsored && post.PendingViews > 0 {
			clone := *post
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryRepository) IncrementReaction(_ context.Context, id, counter string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}

	switch counter {
	case "likes":
		post.Likes++
	case "hearts":
		post.Hearts++
	case "rockets":
		post.Rockets++
	case "shares":
		post.Shares++
	default:
		return repository.ErrUnknownCounter
	}
	return nil
}

func (r *memoryRepository) AddViews(_ context.Context, id string, viewsDelta, pendingDelta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	post.Views += viewsDelta
	post.PendingViews += pendingDelta
	if post.PendingViews < 0 {
		post.PendingViews = 0
	}
	return nil
}

func (r *memoryRepository) MarkSponsored(_ context.Context, id string, immediate, pending int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}
	post.Sponsored = true
	post.Views += immediate
	post.PendingViews += pending
	return nil
}
