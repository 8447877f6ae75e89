// Package scheduler periodically re-adapts the plans of users who logged
// feedback since their last adaptation.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron"
	"golang.org/x/sync/errgroup"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/adjuster"
	"github.com/claude/flexifit/internal/planner"
	"github.com/claude/flexifit/internal/storage"
)

// Users finds users due for adaptation. *storage.DB implements it.
type Users interface {
	UsersWithNewFeedback(ctx context.Context, since time.Time) ([]int, error)
}

var _ Users = (*storage.DB)(nil)

// Adapter runs one adaptation. *planner.Planner implements it.
type Adapter interface {
	Adapt(ctx context.Context, userID int, trigger string) (*planner.Result, error)
}

// Options configure a Scheduler.
type Options struct {
	// Spec is a cron expression (seconds first) or descriptor such as @weekly.
	Spec        string
	Concurrency int
	// Lookback bounds how old feedback may be on the first sweep.
	Lookback time.Duration
	Clock    adaptive.Clock
}

// Stats summarizes one sweep.
type Stats struct {
	Users   int
	Adapted int
	Skipped int
	Errored int
}

// Scheduler runs sweeps on a cron schedule. A sweep still running when the
// next one fires causes that tick to be skipped.
type Scheduler struct {
	users       Users
	adapter     Adapter
	concurrency int
	clock       adaptive.Clock
	log         *slog.Logger

	spec string
	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running sync.Mutex // held for the duration of a sweep
	mu      sync.Mutex
	since   time.Time
}

// New validates the schedule and creates a stopped Scheduler.
func New(users Users, adapter Adapter, opts Options, log *slog.Logger) (*Scheduler, error) {
	if opts.Spec == "" {
		opts.Spec = "@weekly"
	}
	if _, err := cron.Parse(opts.Spec); err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", opts.Spec, err)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Lookback <= 0 {
		opts.Lookback = 7 * 24 * time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = adaptive.SystemClock
	}
	return &Scheduler{
		users:       users,
		adapter:     adapter,
		concurrency: opts.Concurrency,
		clock:       opts.Clock,
		log:         log,
		spec:        opts.Spec,
		since:       opts.Clock.Now().Add(-opts.Lookback),
	}, nil
}

// Start begins firing sweeps. Cancelling ctx or calling Stop ends them.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron = cron.New()
	if err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		s.cancel()
		return fmt.Errorf("scheduling sweep: %w", err)
	}
	s.cron.Start()
	s.log.Info("scheduler started", "spec", s.spec, "concurrency", s.concurrency)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	s.cron.Stop()
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if _, err := s.Sweep(s.ctx); err != nil {
		s.log.Error("sweep failed", "error", err)
	}
}

// Sweep adapts every user with feedback newer than the previous sweep.
// Failures for one user are logged and counted, they do not stop the others.
func (s *Scheduler) Sweep(ctx context.Context) (*Stats, error) {
	if !s.running.TryLock() {
		s.log.Warn("sweep still running, skipping")
		return &Stats{}, nil
	}
	defer s.running.Unlock()

	start := s.clock.Now()
	s.mu.Lock()
	since := s.since
	s.mu.Unlock()

	ids, err := s.users.UsersWithNewFeedback(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("listing users to adapt: %w", err)
	}

	stats := &Stats{Users: len(ids)}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.adapter.Adapt(gctx, id, "scheduler")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				stats.Adapted++
			case errors.Is(err, adjuster.ErrNoCurrentPlan):
				stats.Skipped++
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				stats.Errored++
				s.log.Warn("scheduled adaptation failed", "user_id", id, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("sweep interrupted: %w", err)
	}

	s.mu.Lock()
	s.since = start
	s.mu.Unlock()

	s.log.Info("sweep complete",
		"users", stats.Users,
		"adapted", stats.Adapted,
		"skipped", stats.Skipped,
		"errored", stats.Errored,
		"duration", s.clock.Now().Sub(start).String())
	return stats, nil
}
