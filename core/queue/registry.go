package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"
)

// Registry owns a set of instrumented queues addressed by caller-supplied
// indices and implements the balanced placement and extraction policies over
// them. The index set can grow on demand but never shrinks.
type Registry[I comparable, T comparable] struct {
	queues  *xsync.Map[I, *Queue[T]]
	maxWait atomic.Int64 // nanoseconds; mutable at runtime
	janitor *janitor
	logger  *slog.Logger
	closed  atomic.Bool
}

// NewRegistry constructs a registry with one empty queue per index. The
// index set must be non-empty and free of duplicates. History cleanup is
// enabled by default with DefaultCleanupPolicy and starts immediately; use
// WithCleanupPolicy to change the cadence or WithoutCleanup to disable it.
func NewRegistry[I comparable, T comparable](indices []I, opts ...RegistryOption) (*Registry[I, T], error) {
	if len(indices) == 0 {
		return nil, ErrNoIndices
	}

	seen := make(map[I]struct{}, len(indices))
	for _, idx := range indices {
		if _, dup := seen[idx]; dup {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateIndex, idx)
		}
		seen[idx] = struct{}{}
	}

	options := defaultRegistryOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.cleanupEnabled {
		if err := options.cleanup.Validate(); err != nil {
			return nil, err
		}
	}

	r := &Registry[I, T]{
		queues: xsync.NewMap[I, *Queue[T]](),
		logger: options.logger,
	}
	r.maxWait.Store(int64(options.maxWaitingTime))

	for _, idx := range indices {
		r.queues.Store(idx, New[T]())
	}

	if options.cleanupEnabled {
		r.janitor = newJanitor(options.cleanup, r.resetAll, options.logger, options.shutdownTimeout)
		r.janitor.start()
	}

	r.logger.InfoContext(context.Background(), "queue registry created",
		slog.Int("queues", len(indices)),
		slog.Duration("max_waiting_time", options.maxWaitingTime),
		slog.Bool("cleanup_enabled", options.cleanupEnabled))

	return r, nil
}

// NewRegistryFromConfig constructs a registry from configuration.
// Additional options can override config values.
func NewRegistryFromConfig[I comparable, T comparable](cfg Config, indices []I, opts ...RegistryOption) (*Registry[I, T], error) {
	configOpts := []RegistryOption{
		WithMaxWaitingTime(cfg.MaxWaitingTime),
		WithShutdownTimeout(cfg.ShutdownTimeout),
	}

	if cfg.CleanupEnabled {
		configOpts = append(configOpts, WithCleanupPolicy(CleanupPolicy{
			IntervalDays: cfg.CleanupIntervalDays,
			Hour:         cfg.CleanupHour,
			Minute:       cfg.CleanupMinute,
		}))
	} else {
		configOpts = append(configOpts, WithoutCleanup())
	}

	// User options override config values.
	allOpts := append(configOpts, opts...)

	return NewRegistry[I, T](indices, allOpts...)
}

// TryAddQueue creates an empty queue under index if absent and reports
// whether a new queue was added.
func (r *Registry[I, T]) TryAddQueue(index I) bool {
	_, loaded := r.queues.LoadOrStore(index, New[T]())
	return !loaded
}

// Queue returns the managed queue at index, if any.
func (r *Registry[I, T]) Queue(index I) (*Queue[T], bool) {
	return r.queues.Load(index)
}

// Enqueue places item into the managed queue with the lowest current growth
// rate and returns the chosen index. Ties are broken by iteration order,
// which is not guaranteed to be stable. The registry always manages at least
// one queue, so placement cannot fail.
func (r *Registry[I, T]) Enqueue(item T) I {
	var (
		best     I
		bestRate float64
		found    bool
	)
	r.queues.Range(func(idx I, q *Queue[T]) bool {
		rate := q.GrowthRate()
		if !found || rate < bestRate {
			best, bestRate, found = idx, rate, true
		}
		return true
	})

	if q, ok := r.queues.Load(best); ok {
		q.Enqueue(item)
	}
	return best
}

// EnqueueTo places item into the queue at index, creating an empty queue
// under that index first when it does not exist yet.
func (r *Registry[I, T]) EnqueueTo(index I, item T) {
	q, _ := r.queues.LoadOrStore(index, New[T]())
	q.Enqueue(item)
}

// TryDequeue extracts an item using the balanced-dequeue policy. With no
// arguments every managed queue is a candidate; with arguments the policy is
// restricted to the given indices, and referencing an unmanaged index fails
// with ErrUnknownIndex before anything is dequeued.
//
// The policy gives starvation protection priority over throughput balancing:
// among non-empty candidates whose waiting time exceeds MaxWaitingTime the
// most starved one is drained; otherwise the candidate with the highest
// growth rate is. When every candidate is empty the result is a plain
// not-found.
func (r *Registry[I, T]) TryDequeue(indices ...I) (T, bool, error) {
	var zero T

	var cands []*Queue[T]
	if len(indices) == 0 {
		r.queues.Range(func(_ I, q *Queue[T]) bool {
			cands = append(cands, q)
			return true
		})
	} else {
		for _, idx := range indices {
			q, ok := r.queues.Load(idx)
			if !ok {
				return zero, false, fmt.Errorf("%w: %v", ErrUnknownIndex, idx)
			}
			cands = append(cands, q)
		}
	}

	item, ok := r.dequeueBalanced(cands)
	return item, ok, nil
}

// TryDequeueFrom dequeues directly from the queue at index. An unmanaged
// index or an empty queue is an ordinary not-found, never an error.
func (r *Registry[I, T]) TryDequeueFrom(index I) (T, bool) {
	q, ok := r.queues.Load(index)
	if !ok {
		var zero T
		return zero, false
	}
	return q.TryDequeue()
}

// dequeueBalanced applies the selection policy over the candidate queues.
func (r *Registry[I, T]) dequeueBalanced(cands []*Queue[T]) (T, bool) {
	var zero T

	// Empty queues are never worth draining: their waiting time is zero by
	// definition and a dequeue on them cannot succeed.
	nonEmpty := make([]*Queue[T], 0, len(cands))
	for _, q := range cands {
		if q.Len() > 0 {
			nonEmpty = append(nonEmpty, q)
		}
	}
	if len(nonEmpty) == 0 {
		return zero, false
	}

	maxWait := r.MaxWaitingTime()

	var starved *Queue[T]
	var starvedWait time.Duration
	for _, q := range nonEmpty {
		if wait := q.WaitingTime(); wait > maxWait && wait > starvedWait {
			starved, starvedWait = q, wait
		}
	}
	if starved != nil {
		return starved.TryDequeue()
	}

	var busiest *Queue[T]
	var busiestRate float64
	for _, q := range nonEmpty {
		if rate := q.GrowthRate(); busiest == nil || rate > busiestRate {
			busiest, busiestRate = q, rate
		}
	}
	return busiest.TryDequeue()
}

// TryRemove attempts to remove item from every managed queue and reports
// whether at least one removal succeeded. Removal is attempted against all
// queues rather than short-circuited, so duplicate values across queues are
// each evaluated. Scans on distinct queues run concurrently since each one
// only locks its own queue.
func (r *Registry[I, T]) TryRemove(item T) bool {
	var removed atomic.Bool

	g := new(errgroup.Group)
	r.queues.Range(func(_ I, q *Queue[T]) bool {
		g.Go(func() error {
			if q.TryRemove(item) {
				removed.Store(true)
			}
			return nil
		})
		return true
	})
	_ = g.Wait()

	return removed.Load()
}

// TryRemoveFrom attempts removal from exactly the queue at index.
func (r *Registry[I, T]) TryRemoveFrom(index I, item T) bool {
	q, ok := r.queues.Load(index)
	if !ok {
		return false
	}
	return q.TryRemove(item)
}

// MaxWaitingTime returns the current starvation threshold.
func (r *Registry[I, T]) MaxWaitingTime() time.Duration {
	return time.Duration(r.maxWait.Load())
}

// SetMaxWaitingTime adjusts the starvation threshold at runtime.
// Non-positive values are ignored.
func (r *Registry[I, T]) SetMaxWaitingTime(d time.Duration) {
	if d > 0 {
		r.maxWait.Store(int64(d))
	}
}

// Indices returns the currently managed indices in unspecified order.
func (r *Registry[I, T]) Indices() []I {
	indices := make([]I, 0, r.queues.Size())
	r.queues.Range(func(idx I, _ *Queue[T]) bool {
		indices = append(indices, idx)
		return true
	})
	return indices
}

// QueueCount reports the number of managed queues.
func (r *Registry[I, T]) QueueCount() int {
	return r.queues.Size()
}

// ResetHistories clears the operation history of every managed queue without
// touching queue contents, exactly as a scheduled cleanup pass does, and
// returns the number of queues reset.
func (r *Registry[I, T]) ResetHistories() int {
	return r.resetAll()
}

func (r *Registry[I, T]) resetAll() int {
	cleared := 0
	r.queues.Range(func(_ I, q *Queue[T]) bool {
		q.Reset()
		cleared++
		return true
	})
	return cleared
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// The returned function blocks until the context is cancelled, then tears
// the registry down:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(registry.Run(ctx))
func (r *Registry[I, T]) Run(ctx context.Context) func() error {
	return func() error {
		<-ctx.Done()
		if err := r.Close(); err != nil && !errors.Is(err, ErrRegistryClosed) {
			return err
		}
		return nil
	}
}

// Close tears the registry down, stopping the cleanup scheduler
// deterministically. In-flight enqueue, dequeue, and removal calls are not
// interrupted and complete independently. Closing twice returns
// ErrRegistryClosed.
func (r *Registry[I, T]) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrRegistryClosed
	}

	r.logger.InfoContext(context.Background(), "queue registry closing",
		slog.Int("queues", r.queues.Size()))

	if r.janitor != nil {
		if err := r.janitor.stop(); err != nil && !errors.Is(err, ErrCleanupNotRunning) {
			return err
		}
	}
	return nil
}

// Stats returns current registry counters for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (r *Registry[I, T]) Stats() RegistryStats {
	items := 0
	r.queues.Range(func(_ I, q *Queue[T]) bool {
		items += q.Len()
		return true
	})

	stats := RegistryStats{
		Queues: r.queues.Size(),
		Items:  items,
	}
	if r.janitor != nil {
		stats.ResetsRun = r.janitor.resetsRun.Load()
		stats.CleanupRunning = r.janitor.running()
	}
	return stats
}

// Healthcheck validates that the registry is operational. It returns nil
// when healthy, or an error joined with ErrHealthcheckFailed describing the
// issue. Suitable for use in health check endpoints.
func (r *Registry[I, T]) Healthcheck(ctx context.Context) error {
	if r.closed.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrRegistryClosed)
	}
	if r.janitor != nil && !r.janitor.running() {
		return errors.Join(ErrHealthcheckFailed, ErrCleanupNotRunning)
	}
	return nil
}
