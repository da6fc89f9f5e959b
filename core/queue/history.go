package queue

import (
	"sync"
	"time"
)

// history is the append-only multiset of operations recorded by one queue.
// Alongside the raw records it maintains incremental counters and boundary
// timestamps so metric reads cost O(1) instead of replaying every record.
type history struct {
	mu  sync.RWMutex
	ops []Operation

	enqueues int64
	dequeues int64
	removals int64

	firstOpAt      time.Time // earliest record of any kind
	firstEnqueueAt time.Time // earliest enqueue record
	lastDequeueAt  time.Time // most recent dequeue record
}

// historySnapshot is a point-in-time copy of the counters used by metric
// reads. Concurrent appends after the snapshot are benign.
type historySnapshot struct {
	enqueues int64
	dequeues int64
	removals int64

	firstOpAt      time.Time
	firstEnqueueAt time.Time
	lastDequeueAt  time.Time
}

func newHistory() *history {
	return &history{}
}

// record appends an operation and updates the derived counters.
func (h *history) record(kind OpKind, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ops = append(h.ops, Operation{At: at, Kind: kind})

	if h.firstOpAt.IsZero() {
		h.firstOpAt = at
	}

	switch kind {
	case OpEnqueue:
		h.enqueues++
		if h.firstEnqueueAt.IsZero() {
			h.firstEnqueueAt = at
		}
	case OpDequeue:
		h.dequeues++
		h.lastDequeueAt = at
	case OpRemoval:
		h.removals++
	}
}

// reset discards all records and counters. Queue contents are not touched;
// callers that need them intact simply never go through here for items.
func (h *history) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ops = nil
	h.enqueues = 0
	h.dequeues = 0
	h.removals = 0
	h.firstOpAt = time.Time{}
	h.firstEnqueueAt = time.Time{}
	h.lastDequeueAt = time.Time{}
}

// snapshot returns a consistent copy of the counters.
func (h *history) snapshot() historySnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return historySnapshot{
		enqueues:       h.enqueues,
		dequeues:       h.dequeues,
		removals:       h.removals,
		firstOpAt:      h.firstOpAt,
		firstEnqueueAt: h.firstEnqueueAt,
		lastDequeueAt:  h.lastDequeueAt,
	}
}

// operations returns a point-in-time copy of the raw records.
func (h *history) operations() []Operation {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ops := make([]Operation, len(h.ops))
	copy(ops, h.ops)
	return ops
}

// size reports the number of retained records.
func (h *history) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.ops)
}
