package infra

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// PeriodicTask runs a function on a fixed interval with an overlap guard:
// a tick that arrives while the previous run is still in flight is skipped,
// never queued, so a slow run cannot pile up duplicate work against
// rate-limited external APIs.
type PeriodicTask struct {
	name     string
	interval time.Duration
	fn       func(context.Context) error
	logger   *slog.Logger

	running atomic.Bool
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewPeriodicTask creates a task that is not yet started.
func NewPeriodicTask(name string, interval time.Duration, fn func(context.Context) error, logger *slog.Logger) *PeriodicTask {
	return &PeriodicTask{name: name, interval: interval, fn: fn, logger: logger}
}

// Start launches the ticker goroutine and performs one immediate run.
// Stops when ctx is cancelled or Stop is called.
func (t *PeriodicTask) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	t.logger.Info("periodic task started", "task", t.name, "interval", t.interval)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		t.runOnce(ctx)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.logger.Info("periodic task stopped", "task", t.name)
				return
			case <-ticker.C:
				t.runOnce(ctx)
			}
		}
	}()
}

// Stop cancels the task and waits for any in-flight run to finish.
func (t *PeriodicTask) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
}

// TryRun executes the task immediately unless a run is already in flight.
// Returns false when skipped. Used both by the ticker and by the manual
// sync-trigger endpoint.
func (t *PeriodicTask) TryRun(ctx context.Context) bool {
	if !t.running.CompareAndSwap(false, true) {
		t.logger.Warn("periodic task still running, tick skipped", "task", t.name)
		return false
	}
	defer t.running.Store(false)

	start := time.Now()
	if err := t.fn(ctx); err != nil {
		t.logger.Error("periodic task run failed", "task", t.name, "error", err)
	} else {
		t.logger.Debug("periodic task run finished", "task", t.name, "duration_ms", time.Since(start).Milliseconds())
	}
	return true
}

func (t *PeriodicTask) runOnce(ctx context.Context) {
	t.TryRun(ctx)
}
