package supabase

import (
	"context"
	"fmt"
	"time"

	"postboost-backend/internal/features/post/models"
	"postboost-backend/internal/features/post/repository"
	"postboost-backend/internal/platform/supabase"
)

const postsTable = "posts"

type postRow struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Body         string    `json:"body"`
	Kind         string    `json:"kind"`
	Likes        int64     `json:"likes"`
	Hearts       int64     `json:"hearts"`
	Rockets      int64     `json:"rockets"`
	Shares       int64     `json:"shares"`
	Views        int64     `json:"views"`
	PendingViews int64     `json:"pending_views"`
	Sponsored    bool      `json:"sponsored"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r postRow) toModel() *models.Post {
	return &models.Post{
		ID:           r.ID,
		AuthorID:     r.AuthorID,
		Body:         r.Body,
		Kind:         r.Kind,
		Likes:        r.Likes,
		Hearts:       r.Hearts,
		Rockets:      r.Rockets,
		Shares:       r.Shares,
		Views:        r.Views,
		PendingViews: r.PendingViews,
		Sponsored:    r.Sponsored,
		CreatedAt:    r.CreatedAt,
	}
}

type supabaseRepository struct {
	client *supabase.Client
}

// NewSupabaseRepository returns a PostRepository backed by the hosted store.
func NewSupabaseRepository(client *supabase.Client) repository.PostRepository {
	return &supabaseRepository{client: client}
}

func (r *supabaseRepository) Create(ctx context.Context, post *models.Post) error {
	row := postRow{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Body:      post.Body,
		Kind:      post.Kind,
		CreatedAt: post.CreatedAt,
	}
	resp, err := r.client.From(postsTable).ExecuteInsert(ctx, row, "")
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *supabaseRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	resp, err := r.client.From(postsTable).Select("*").Eq("id", id).Single().Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if resp.IsNotFound() {
		return nil, repository.ErrPostNotFound
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	var row postRow
	if err := resp.JSON(&row); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return row.toModel(), nil
}

func (r *supabaseRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	resp, err := r.client.From(postsTable).
		Select("*").
		Order("created_at", false).
		Limit(limit).
		Offset(offset).
		Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var rows []postRow
	if err := resp.JSON(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}
	return posts, nil
}

func (r *supabaseRepository) ListSponsoredWithPending(ctx context.Context, limit int) ([]*models.Post, error) {
	query := r.client.From(postsTable).
		Select("*").
		Is("sponsored", true).
		Gt("pending_views", 0).
		Order("created_at", true)
	if limit > 0 {
		query = query.Limit(limit)
	}

	resp, err := query.Execute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sponsored posts: %w", err)
	}
	if err := resp.Error(); err != nil {
		return nil, fmt.Errorf("failed to list sponsored posts: %w", err)
	}

	var rows []postRow
	if err := resp.JSON(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode sponsored posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}
	return posts, nil
}

// IncrementReaction calls the increment_post_counter database function so the
// bump is a single atomic statement, not a read-then-write.
func (r *supabaseRepository) IncrementReaction(ctx context.Context, id, counter string) error {
	resp, err := r.client.RPC(ctx, "increment_post_counter", map[string]any{
		"p_post_id": id,
		"p_counter": counter,
	})
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", counter, err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to increment %s: %w", counter, err)
	}
	return r.checkAffected(resp)
}

func (r *supabaseRepository) AddViews(ctx context.Context, id string, viewsDelta, pendingDelta int64) error {
	resp, err := r.client.RPC(ctx, "add_post_views", map[string]any{
		"p_post_id":       id,
		"p_views_delta":   viewsDelta,
		"p_pending_delta": pendingDelta,
	})
	if err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to add views: %w", err)
	}
	return r.checkAffected(resp)
}

func (r *supabaseRepository) MarkSponsored(ctx context.Context, id string, immediate, pending int64) error {
	resp, err := r.client.RPC(ctx, "sponsor_post", map[string]any{
		"p_post_id":   id,
		"p_immediate": immediate,
		"p_pending":   pending,
	})
	if err != nil {
		return fmt.Errorf("failed to sponsor post: %w", err)
	}
	if err := resp.Error(); err != nil {
		return fmt.Errorf("failed to sponsor post: %w", err)
	}
	return r.checkAffected(resp)
}

// The counter functions return the number of rows touched; zero means the
// post id is unknown.
func (r *supabaseRepository) checkAffected(resp *supabase.Response) error {
	var affected int64
	if err := resp.JSON(&affected); err != nil {
		return nil
	}
	if affected == 0 {
		return repository.ErrPostNotFound
	}
	return nil
}
