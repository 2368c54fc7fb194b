package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"postboost-backend/internal/common/logger"
)

const growthTickTimeout = 30 * time.Second

// GrowthService schedules the periodic simulated view-growth step.
type GrowthService struct {
	posts PostService
	spec  string
	cron  *cron.Cron
}

// NewGrowthService creates the scheduler; spec is a cron expression such as
// "@every 30s".
func NewGrowthService(posts PostService, spec string) *GrowthService {
	return &GrowthService{posts: posts, spec: spec}
}

// Start begins ticking. It fails only on an invalid cron spec.
func (s *GrowthService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info().Str("spec", s.spec).Msg("View growth scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running tick to finish.
func (s *GrowthService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	logger.Info().Msg("View growth scheduler stopped")
}

func (s *GrowthService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), growthTickTimeout)
	defer cancel()

	touched, err := s.posts.GrowthStep(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("View growth step failed")
		return
	}
	logger.Debug().Int("posts", touched).Msg("View growth step completed")
}
