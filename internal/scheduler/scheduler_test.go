package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/adjuster"
	"github.com/claude/flexifit/internal/planner"
)

type fakeUsers struct {
	mu     sync.Mutex
	ids    []int
	err    error
	sinces []time.Time
}

func (f *fakeUsers) UsersWithNewFeedback(_ context.Context, since time.Time) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinces = append(f.sinces, since)
	return f.ids, f.err
}

type fakeAdapter struct {
	errs        map[int]error
	calls       atomic.Int32
	inflight    atomic.Int32
	maxInflight atomic.Int32
	called      chan int
}

func (f *fakeAdapter) Adapt(_ context.Context, userID int, trigger string) (*planner.Result, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	for {
		m := f.maxInflight.Load()
		if n <= m || f.maxInflight.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	f.inflight.Add(-1)
	if f.called != nil {
		select {
		case f.called <- userID:
		default:
		}
	}
	if trigger != "scheduler" {
		return nil, errors.New("unexpected trigger " + trigger)
	}
	return nil, f.errs[userID]
}

var now = time.Date(2026, 5, 4, 6, 0, 0, 0, time.UTC)

// TestSweepCountsOutcomes adapts every due user within the concurrency bound.
func TestSweepCountsOutcomes(t *testing.T) {
	defer goleak.VerifyNone(t)

	users := &fakeUsers{ids: []int{1, 2, 3, 4, 5, 6}}
	adapter := &fakeAdapter{errs: map[int]error{
		2: adjuster.ErrNoCurrentPlan,
		3: errors.New("database gone"),
	}}
	s, err := New(users, adapter, Options{Concurrency: 2, Lookback: time.Hour, Clock: adaptive.FixedClock(now)},
		slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}

	stats, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Users: 6, Adapted: 4, Skipped: 1, Errored: 1}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
	if got := adapter.maxInflight.Load(); got > 2 {
		t.Errorf("max concurrent adaptations = %d, want <= 2", got)
	}

	if _, err := s.Sweep(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(users.sinces) != 2 {
		t.Fatalf("queries = %d, want 2", len(users.sinces))
	}
	if !users.sinces[0].Equal(now.Add(-time.Hour)) {
		t.Errorf("first since = %v, want lookback %v", users.sinces[0], now.Add(-time.Hour))
	}
	if !users.sinces[1].Equal(now) {
		t.Errorf("second since = %v, want previous sweep start %v", users.sinces[1], now)
	}
}

// TestSweepListError keeps the watermark when the user query fails.
func TestSweepListError(t *testing.T) {
	users := &fakeUsers{err: errors.New("timeout")}
	s, err := New(users, &fakeAdapter{}, Options{Clock: adaptive.FixedClock(now)}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Sweep(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	users.err = nil
	if _, err := s.Sweep(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !users.sinces[1].Equal(users.sinces[0]) {
		t.Errorf("since moved after a failed sweep: %v -> %v", users.sinces[0], users.sinces[1])
	}
}

// TestNewRejectsBadSpec validates the cron expression up front.
func TestNewRejectsBadSpec(t *testing.T) {
	if _, err := New(&fakeUsers{}, &fakeAdapter{}, Options{Spec: "every tuesday"}, slog.New(slog.DiscardHandler)); err == nil {
		t.Error("expected error for malformed spec")
	}
}

// TestStartStop fires on schedule and leaves no goroutines behind.
func TestStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	adapter := &fakeAdapter{called: make(chan int, 1)}
	s, err := New(&fakeUsers{ids: []int{9}}, adapter, Options{Spec: "@every 1s"}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	select {
	case id := <-adapter.called:
		if id != 9 {
			t.Errorf("adapted user %d, want 9", id)
		}
	case <-time.After(5 * time.Second):
		t.Error("scheduled sweep did not run")
	}
	s.Stop()
}
