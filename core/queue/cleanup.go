package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CleanupPolicy describes when and how often queue histories are cleared.
// IntervalDays is the recurring interval expressed in days and may be
// fractional; Hour and Minute fix the time of day for the first reset.
type CleanupPolicy struct {
	IntervalDays float64
	Hour         int
	Minute       int
}

// DefaultCleanupPolicy returns the daily-at-midnight policy applied when a
// registry is constructed without an explicit one.
func DefaultCleanupPolicy() CleanupPolicy {
	return CleanupPolicy{IntervalDays: 1, Hour: 0, Minute: 0}
}

// Validate checks the policy invariants: a positive interval, an hour of day
// in 0..23, and a minute of either 0 or 30.
func (p CleanupPolicy) Validate() error {
	if p.IntervalDays <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %v days", ErrInvalidCleanupPolicy, p.IntervalDays)
	}
	if p.Hour < 0 || p.Hour > 23 {
		return fmt.Errorf("%w: hour must be in 0..23, got %d", ErrInvalidCleanupPolicy, p.Hour)
	}
	if p.Minute != 0 && p.Minute != 30 {
		return fmt.Errorf("%w: minute must be 0 or 30, got %d", ErrInvalidCleanupPolicy, p.Minute)
	}
	return nil
}

// interval converts IntervalDays to a duration.
func (p CleanupPolicy) interval() time.Duration {
	return time.Duration(p.IntervalDays * 24 * float64(time.Hour))
}

// nextResetAfter returns the first absolute reset time after now: today at
// Hour:Minute, or the same time tomorrow when that moment has already
// passed.
func (p CleanupPolicy) nextResetAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), p.Hour, p.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// janitor owns the single cancellable task that periodically resets every
// managed queue's history. It is created and started by the registry and
// stopped deterministically on teardown; there is no timer re-arming from
// within callbacks.
type janitor struct {
	id              uuid.UUID
	policy          CleanupPolicy
	resetAll        func() int
	logger          *slog.Logger
	shutdownTimeout time.Duration

	// State management
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Observability metrics
	resetsRun atomic.Int64
}

func newJanitor(policy CleanupPolicy, resetAll func() int, logger *slog.Logger, shutdownTimeout time.Duration) *janitor {
	return &janitor{
		id:              uuid.New(),
		policy:          policy,
		resetAll:        resetAll,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// start launches the cleanup loop. It is a no-op when already started.
func (j *janitor) start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	first := j.policy.nextResetAfter(time.Now())
	j.logger.InfoContext(ctx, "history cleanup scheduled",
		slog.String("janitor_id", j.id.String()),
		slog.Time("first_reset", first),
		slog.Duration("interval", j.policy.interval()))

	go j.loop(ctx, first)
}

// loop waits for the first absolute reset time, then repeats at the policy
// interval until the context is cancelled.
func (j *janitor) loop(ctx context.Context, first time.Time) {
	timer := time.NewTimer(time.Until(first))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
		j.resetWithWait(ctx)
	}

	ticker := time.NewTicker(j.policy.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.InfoContext(context.Background(), "history cleanup stopping",
				slog.String("janitor_id", j.id.String()))
			return
		case <-ticker.C:
			j.resetWithWait(ctx)
		}
	}
}

// resetWithWait tracks the reset pass with the WaitGroup so stop() can wait
// for an in-progress pass instead of interrupting it.
func (j *janitor) resetWithWait(ctx context.Context) {
	j.mu.Lock()
	if j.cancel == nil {
		j.mu.Unlock()
		return
	}
	j.wg.Add(1)
	j.mu.Unlock()

	defer j.wg.Done()

	cleared := j.resetAll()
	j.resetsRun.Add(1)

	j.logger.InfoContext(ctx, "queue histories reset",
		slog.String("janitor_id", j.id.String()),
		slog.Int("queues", cleared))
}

// stop cancels future firings and waits for an in-progress reset pass,
// bounded by the shutdown timeout. Stopping an already-stopped janitor
// returns ErrCleanupNotRunning.
func (j *janitor) stop() error {
	j.mu.Lock()
	if j.cancel == nil {
		j.mu.Unlock()
		return ErrCleanupNotRunning
	}

	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	cancel()

	ctx, ctxCancel := context.WithTimeout(context.Background(), j.shutdownTimeout)
	defer ctxCancel()

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		j.logger.WarnContext(context.Background(), "cleanup shutdown timeout exceeded",
			slog.String("janitor_id", j.id.String()),
			slog.Duration("timeout", j.shutdownTimeout))
		return fmt.Errorf("cleanup shutdown timeout exceeded after %s", j.shutdownTimeout)
	}
}

// running reports whether the cleanup loop is active.
func (j *janitor) running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.cancel != nil
}
