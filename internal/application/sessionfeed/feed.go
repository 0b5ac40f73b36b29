// Package sessionfeed re-evaluates a practice session on a fixed tick and
// hands each result to a consumer (an SSE stream or the CLI's --follow).
package sessionfeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"practiceplan/internal/adapters/http/perf"
	"practiceplan/internal/application/projections"
	"practiceplan/internal/domain/practice"
)

// DefaultInterval is the tick used when Feed.Interval is unset.
const DefaultInterval = time.Second

// ErrStopped is returned by an emit func to end the feed without error.
var ErrStopped = errors.New("feed stopped")

// Update is one evaluation of the session.
type Update struct {
	At    time.Time
	Plan  practice.Plan
	State projections.GetSessionStateResult
}

// Feed evaluates the plan returned by Load every Interval.
// Load is called on every tick so edits to the plan are picked up.
type Feed struct {
	PlanID    string
	Interval  time.Duration
	Now       func() time.Time
	Load      func(ctx context.Context, planID string) (practice.Plan, error)
	Collector *perf.Collector // optional
}

// Run emits an update immediately and then on every tick until ctx is
// cancelled, Load fails, or emit returns an error.
// POST: returns nil on cancellation or ErrStopped, the failing error otherwise
func (f Feed) Run(ctx context.Context, emit func(Update) error) error {
	if f.Load == nil {
		return errors.New("sessionfeed: Load is required")
	}
	now := f.Now
	if now == nil {
		now = time.Now
	}
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := f.tick(ctx, now, emit); err != nil {
			if errors.Is(err, ErrStopped) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (f Feed) tick(ctx context.Context, now func() time.Time, emit func(Update) error) error {
	start := time.Now()
	p, err := f.Load(ctx, f.PlanID)
	if err != nil {
		return fmt.Errorf("load plan %s: %w", f.PlanID, err)
	}
	at := now()
	u := Update{At: at, Plan: p, State: projections.Evaluate(p, at)}
	err = emit(u)
	if f.Collector != nil {
		f.Collector.Record(perf.Entry{
			Kind:       perf.KindFeedTick,
			Path:       "feed " + f.PlanID,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Timestamp:  start,
		})
	}
	return err
}

// Running is a feed started in the background by Start.
type Running struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Start runs feed in a goroutine until ctx is cancelled, Stop is called or
// the feed ends on its own.
func Start(ctx context.Context, feed Feed, emit func(Update) error) *Running {
	ctx, cancel := context.WithCancel(ctx)
	r := &Running{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.err = feed.Run(ctx, emit)
		if r.err != nil {
			slog.Warn("session_feed_error", "plan_id", feed.PlanID, "error", r.err)
		}
	}()
	return r
}

// Done is closed once the feed goroutine has exited.
func (r *Running) Done() <-chan struct{} {
	return r.done
}

// Stop cancels the feed, waits for it to exit and returns Run's error.
// It is safe to call more than once.
func (r *Running) Stop() error {
	r.cancel()
	<-r.done
	return r.err
}
