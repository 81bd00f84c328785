package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studyabroad-search-api/pkg/jobs"
)

// WarmupConfig sizes the background warm-up pool.
type WarmupConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// WarmupService re-primes the unfiltered first pages after a purge, so the
// landing queries do not all miss at once.
type WarmupService struct {
	queue   *jobs.Queue
	targets map[string]func(context.Context) error
	order   []string
	logger  *zap.Logger
}

// NewWarmupService builds the warm-up pool over search.
func NewWarmupService(search *SearchService, cfg WarmupConfig, logger *zap.Logger) *WarmupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &WarmupService{
		logger: logger,
		order:  []string{OpCountries, OpCountriesOverview, OpSearch},
		targets: map[string]func(context.Context) error{
			OpCountries: func(ctx context.Context) error {
				_, _, err := search.Countries(ctx, SearchRequest{})
				return err
			},
			OpCountriesOverview: func(ctx context.Context) error {
				_, _, err := search.Overview(ctx, SearchRequest{})
				return err
			},
			OpSearch: func(ctx context.Context) error {
				_, _, err := search.Search(ctx, SearchRequest{})
				return err
			},
		},
	}
	s.queue = jobs.NewQueue("cache-warmup", s.run, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: len(s.order) * 2,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the workers.
func (s *WarmupService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drops queued warm-ups and waits for the workers to exit.
func (s *WarmupService) Stop() {
	s.queue.Stop()
}

// Schedule queues every warm-up target whose keys fall under prefix. An empty
// prefix queues all targets. It returns how many were newly queued.
func (s *WarmupService) Schedule(prefix string) int {
	if s == nil {
		return 0
	}
	queued := 0
	for _, op := range s.order {
		if !coveredBy(op, prefix) {
			continue
		}
		added, err := s.queue.Enqueue(op)
		if err != nil {
			s.logger.Warn("warm-up not scheduled", zap.String("op", op), zap.Error(err))
			continue
		}
		if added {
			queued++
		}
	}
	return queued
}

func (s *WarmupService) run(ctx context.Context, task jobs.Task) error {
	warm, ok := s.targets[task.Key]
	if !ok {
		return fmt.Errorf("unknown warm-up target %q", task.Key)
	}
	start := time.Now()
	if err := warm(ctx); err != nil {
		return err
	}
	s.logger.Debug("cache warmed", zap.String("op", task.Key), zap.Duration("took", time.Since(start)))
	return nil
}

// coveredBy reports whether purging prefix may have removed op's entries.
func coveredBy(op, prefix string) bool {
	return strings.HasPrefix(op+":", prefix) || strings.HasPrefix(prefix, op+":")
}
