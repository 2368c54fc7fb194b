package repository

import (
	"context"
	"errors"

	"postboost-backend/internal/features/post/models"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrUnknownCounter = errors.New("unknown reaction counter")
)

// PostRepository is the storage boundary for posts. Counter mutations are
// atomic increments at the store so concurrent reactions do not lose updates.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)

	// ListSponsoredWithPending returns sponsored posts that still hold
	// unsurfaced purchased views, regardless of age. limit <= 0 means no
	// limit.
	ListSponsoredWithPending(ctx context.Context, limit int) ([]*models.Post, error)

	// IncrementReaction bumps one of the four engagement counters by one.
	// counter is a column name: likes, hearts, rockets or shares.
	IncrementReaction(ctx context.Context, id, counter string) error

	// AddViews adjusts the view counters. viewsDelta is added to the public
	// view count, pendingDelta (may be negative) to the unsurfaced remainder.
	AddViews(ctx context.Context, id string, viewsDelta, pendingDelta int64) error

	// MarkSponsored flags the post and applies the purchased views: immediate
	// is surfaced at once, pending accrues through the growth step.
	MarkSponsored(ctx context.Context, id string, immediate, pending int64) error
}
