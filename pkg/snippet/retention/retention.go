// Package retention prunes expired snippets on a cron schedule.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"biscuit-hq/bakery/pkg/snippet"
)

// Config controls the pruning policy.
type Config struct {
	// Retention is how long snippets are kept. Zero disables pruning.
	Retention time.Duration

	// Schedule is the cron expression for pruning runs,
	// e.g. "0 3 * * *" for daily at 3 AM.
	Schedule string
}

// Pruner deletes snippets older than the configured retention.
type Pruner struct {
	store  snippet.Store
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// NewPruner creates a pruner over the given store.
func NewPruner(store snippet.Store, cfg Config) *Pruner {
	return &Pruner{
		store:  store,
		config: cfg,
		logger: slog.Default().With("component", "snippet.retention"),
		now:    time.Now,
	}
}

// Prune runs one pruning cycle and returns the number of snippets
// deleted. A zero retention is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.Retention <= 0 {
		return 0, nil
	}
	cutoff := p.now().Add(-p.config.Retention)
	return p.store.Prune(ctx, cutoff)
}

// Scheduler runs the pruner on its cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a retention scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "snippet.scheduler"),
	}
}

// Start begins scheduled pruning. An empty schedule or zero retention
// leaves the scheduler idle. The scheduler stops when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pruner.config.Schedule == "" || s.pruner.config.Retention <= 0 {
		s.logger.Info("snippet retention not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.pruner.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.pruner.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.pruner.config.Schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling snippet pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("snippet retention scheduler started",
		"schedule", s.pruner.config.Schedule,
		"retention", s.pruner.config.Retention,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled snippet pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("scheduled snippet pruning completed", "deleted", deleted)
	} else {
		s.logger.Debug("scheduled snippet pruning completed, nothing to delete")
	}
}

// Stop stops the scheduler and waits for a running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("snippet retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
