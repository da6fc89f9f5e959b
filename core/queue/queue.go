package queue

import (
	"sync"
	"time"
)

// fifo is the internal FIFO container. It is never exposed: all access goes
// through the instrumented operations of Queue, so callers cannot bypass
// history recording by holding a reference to the raw container.
type fifo[T any] struct {
	mu    sync.Mutex
	items []T
}

func (f *fifo[T]) push(item T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, item)
}

func (f *fifo[T]) tryPop() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var zero T
	if len(f.items) == 0 {
		return zero, false
	}

	item := f.items[0]
	f.items[0] = zero // release the reference for GC
	f.items = f.items[1:]
	return item, true
}

func (f *fifo[T]) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.items)
}

// Queue is a thread-safe FIFO queue that records every enqueue, dequeue, and
// removal as a timestamped operation and derives balancing metrics from that
// history. The zero value is not usable; construct queues with New.
type Queue[T comparable] struct {
	// scanMu serializes removal scans against ordinary operations. Enqueue
	// and TryDequeue take the read side so they run concurrently with each
	// other; TryRemove takes the write side for the whole scan. The lock is
	// owned per queue instance, so scans on distinct queues never contend.
	scanMu sync.RWMutex

	fifo      fifo[T]
	hist      *history
	createdAt time.Time
}

// New constructs an empty instrumented queue.
func New[T comparable]() *Queue[T] {
	return &Queue[T]{
		hist:      newHistory(),
		createdAt: time.Now(),
	}
}

// Enqueue appends item to the tail and records an enqueue operation. It
// blocks while a removal scan holds the queue's exclusive access.
func (q *Queue[T]) Enqueue(item T) {
	q.scanMu.RLock()
	defer q.scanMu.RUnlock()

	q.fifo.push(item)
	q.hist.record(OpEnqueue, time.Now())
}

// TryDequeue pops the head item. It returns false without recording an
// operation when the queue is empty, and blocks behind an active removal
// scan the same way Enqueue does.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.scanMu.RLock()
	defer q.scanMu.RUnlock()

	item, ok := q.fifo.tryPop()
	if !ok {
		var zero T
		return zero, false
	}

	q.hist.record(OpDequeue, time.Now())
	return item, true
}

// TryRemove removes the first occurrence of item, comparing by value, and
// reports whether anything was removed. The relative order of surviving
// items is preserved. The scan holds the queue's exclusive access from start
// to finish, so concurrent Enqueue and TryDequeue calls wait for it instead
// of interleaving with the scan's pop/push cycle. An empty queue returns
// false immediately without taking the exclusion path.
func (q *Queue[T]) TryRemove(item T) bool {
	if q.fifo.len() == 0 {
		return false
	}

	q.scanMu.Lock()
	defer q.scanMu.Unlock()

	// Rotate the whole queue through the head exactly once. The first match
	// is dropped; everything else is pushed back, which restores the
	// original order by the time the rotation wraps around.
	found := false
	for i, n := 0, q.fifo.len(); i < n; i++ {
		v, ok := q.fifo.tryPop()
		if !ok {
			break
		}
		if !found && v == item {
			found = true
			continue
		}
		q.fifo.push(v)
	}

	if found {
		q.hist.record(OpRemoval, time.Now())
	}
	return found
}

// Len reports the current number of queued items.
func (q *Queue[T]) Len() int {
	return q.fifo.len()
}

// GrowthRate approximates how fast the queue accumulates work relative to
// how fast it is drained, computed from the recorded history. With no
// dequeues on record the raw enqueue count is returned, standing in for an
// infinite relative growth. The read never mutates state and may race
// benignly with concurrent appends.
func (q *Queue[T]) GrowthRate() float64 {
	s := q.hist.snapshot()

	if s.dequeues == 0 {
		return float64(s.enqueues)
	}

	net := float64(s.enqueues - s.removals)
	drains := float64(s.dequeues)

	// Arrivals and drains per minute over the window since the earliest
	// record. The window cancels algebraically, so guard a zero-width
	// window by dividing the counts directly.
	elapsed := time.Since(s.firstOpAt).Minutes()
	if elapsed <= 0 {
		return net / drains
	}
	return (net / elapsed) / (drains / elapsed)
}

// WaitingTime approximates how long the oldest pending item has been waiting
// for service: zero for an empty queue, otherwise the time since the most
// recent dequeue, or since the earliest enqueue when nothing has been
// dequeued yet.
func (q *Queue[T]) WaitingTime() time.Duration {
	if q.fifo.len() == 0 {
		return 0
	}

	s := q.hist.snapshot()
	switch {
	case s.dequeues > 0:
		return time.Since(s.lastDequeueAt)
	case !s.firstEnqueueAt.IsZero():
		return time.Since(s.firstEnqueueAt)
	default:
		// Items are present but the history was reset since they arrived.
		return 0
	}
}

// Reset atomically discards the operation history. Queue contents are not
// touched. The cleanup scheduler calls this periodically; it is exported for
// manual invocation as well.
func (q *Queue[T]) Reset() {
	q.hist.reset()
}

// History returns a point-in-time copy of the recorded operations.
func (q *Queue[T]) History() []Operation {
	return q.hist.operations()
}

// CreatedAt returns the queue's construction time.
func (q *Queue[T]) CreatedAt() time.Time {
	return q.createdAt
}

// Uptime returns the time elapsed since construction.
func (q *Queue[T]) Uptime() time.Duration {
	return time.Since(q.createdAt)
}

// Stats returns current queue counters for observability and monitoring.
// This method is thread-safe and can be called at any time.
func (q *Queue[T]) Stats() QueueStats {
	s := q.hist.snapshot()

	return QueueStats{
		Items:     q.fifo.len(),
		Enqueues:  s.enqueues,
		Dequeues:  s.dequeues,
		Removals:  s.removals,
		CreatedAt: q.createdAt,
	}
}
