package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"postboost-backend/internal/common/logger"
	"postboost-backend/internal/features/post/models"
	"postboost-backend/internal/features/post/repository"
	"postboost-backend/internal/platform/textgen"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidReaction = errors.New("unknown reaction kind")
	ErrEmptyBody       = errors.New("post body cannot be empty")
)

const (
	// MaxBodyLength bounds a post body.
	MaxBodyLength = 500

	// growthBatchSize caps how many posts one growth tick touches.
	growthBatchSize = 200

	// maxOrganicViews is the upper bound of simulated organic views a post
	// gains per growth tick.
	maxOrganicViews = 3
)

var reactionCounters = map[string]string{
	models.ReactionLike:   "likes",
	models.ReactionHeart:  "hearts",
	models.ReactionRocket: "rockets",
}

type PostService interface {
	CreatePost(ctx context.Context, authorID, body string) (*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error)

	// React bumps the counter named by kind (like, heart, rocket) by one.
	React(ctx context.Context, id, kind string) error
	// Share bumps the share counter.
	Share(ctx context.Context, id string) error

	// SeedDemoPosts creates count demo posts authored by authorID, with
	// bodies from the text-generation boundary (or its static fallback).
	SeedDemoPosts(ctx context.Context, authorID string, count int) ([]*models.Post, error)

	// GrowthStep runs one tick of the simulated view growth: every recent
	// post gains a few organic views, and sponsored posts surface a slice of
	// their pending purchased views. Returns how many posts were touched.
	GrowthStep(ctx context.Context) (int, error)
}

type postService struct {
	repo repository.PostRepository
	gen  *textgen.Client
}

func NewPostService(repo repository.PostRepository, gen *textgen.Client) PostService {
	return &postService{repo: repo, gen: gen}
}

func (s *postService) CreatePost(ctx context.Context, authorID, body string) (*models.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if len(body) > MaxBodyLength {
		return nil, fmt.Errorf("post body cannot exceed %d characters", MaxBodyLength)
	}

	post := &models.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Body:      body,
		Kind:      models.InferKind(body),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

func (s *postService) React(ctx context.Context, id, kind string) error {
	counter, ok := reactionCounters[kind]
	if !ok {
		return ErrInvalidReaction
	}

	err := s.repo.IncrementReaction(ctx, id, counter)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}

func (s *postService) Share(ctx context.Context, id string) error {
	err := s.repo.IncrementReaction(ctx, id, "shares")
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}

func (s *postService) SeedDemoPosts(ctx context.Context, authorID string, count int) ([]*models.Post, error) {
	bodies := s.gen.GeneratePosts(ctx, count)

	posts := make([]*models.Post, 0, len(bodies))
	for _, body := range bodies {
		post, err := s.CreatePost(ctx, authorID, body)
		if err != nil {
			logger.Warn().Err(err).Msg("Skipping unusable demo post body")
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *postService) GrowthStep(ctx context.Context) (int, error) {
	touched := 0

	// Organic views go to the most recent posts only.
	posts, err := s.repo.List(ctx, growthBatchSize, 0)
	if err != nil {
		return 0, err
	}
	for _, post := range posts {
		organic := rand.Int63n(maxOrganicViews + 1)
		if organic == 0 {
			continue
		}
		if err := s.repo.AddViews(ctx, post.ID, organic, 0); err != nil {
			logger.Warn().Err(err).Str("post_id", post.ID).Msg("View growth step failed for post")
			continue
		}
		touched++
	}

	// Purchased views drain for every sponsored post still holding a
	// remainder, however old. A paid view must eventually surface.
	sponsored, err := s.repo.ListSponsoredWithPending(ctx, 0)
	if err != nil {
		return touched, err
	}
	for _, post := range sponsored {
		// Surface 10% of the pending purchased views per tick, at
		// least one.
		drain := post.PendingViews / 10
		if drain < 1 {
			drain = 1
		}
		if drain > post.PendingViews {
			drain = post.PendingViews
		}
		if err := s.repo.AddViews(ctx, post.ID, drain, -drain); err != nil {
			logger.Warn().Err(err).Str("post_id", post.ID).Msg("Pending view drain failed for post")
			continue
		}
		touched++
	}
	return touched, nil
}
