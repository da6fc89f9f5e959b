// Package queue provides self-instrumenting FIFO queues and a registry that
// load-balances work items across a named set of such queues. Every enqueue,
// dequeue, and removal is recorded as a timestamped operation, and the derived
// metrics (growth rate and waiting time) drive the registry's placement and
// extraction decisions.
//
// # Features
//
//   - Thread-safe generic FIFO queue with value-based removal
//   - Per-queue operation history with O(1) derived metrics
//   - Registry with balanced enqueue (lowest growth rate wins)
//   - Balanced dequeue with starvation protection (waiting-time threshold)
//   - Scheduled history cleanup with a single cancellable periodic task
//   - Graceful shutdown and errgroup-compatible lifecycle
//
// # Basic Usage
//
// Create a registry over a fixed set of indices and let it pick queues:
//
//	import "github.com/dmitrymomot/balanceq/core/queue"
//
//	// One queue per tenant shard.
//	registry, err := queue.NewRegistry[int, string]([]int{0, 1, 2})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer registry.Close()
//
//	// Producer: the registry picks the least loaded queue.
//	idx := registry.Enqueue("job-1")
//	fmt.Println("placed in queue", idx)
//
//	// Consumer: the registry drains the most deserving queue.
//	if item, ok, _ := registry.TryDequeue(); ok {
//		process(item)
//	}
//
// Queues can also be addressed directly, auto-creating them on first use:
//
//	registry.EnqueueTo(7, "pinned-job") // queue 7 is created if absent
//	item, ok := registry.TryDequeueFrom(7)
//
// # Balancing Policies
//
// Balanced enqueue places each item into the managed queue with the lowest
// current growth rate, so fast-filling queues stop receiving new work until
// consumers catch up.
//
// Balanced dequeue first looks for queues whose waiting time exceeds the
// configured maximum (10 minutes by default, adjustable at runtime via
// SetMaxWaitingTime); the most starved of those is drained first. When no
// queue is starved, the one with the highest growth rate is drained instead.
//
// # History Cleanup
//
// Each queue accumulates an operation history that metric reads are derived
// from. Histories grow without bound unless cleared, so the registry owns a
// cleanup scheduler that resets every queue's history (never its contents) on
// a configurable daily cadence:
//
//	policy := queue.CleanupPolicy{IntervalDays: 1, Hour: 3, Minute: 30}
//	registry, err := queue.NewRegistry[string, Task](
//		[]string{"high", "low"},
//		queue.WithCleanupPolicy(policy),
//	)
//
// Cleanup is enabled by default with a daily reset at midnight. Use
// WithoutCleanup to disable it, accepting unbounded history growth.
//
// # Standalone Queues
//
// The instrumented queue is usable on its own:
//
//	q := queue.New[string]()
//	q.Enqueue("a")
//	q.Enqueue("b")
//	item, ok := q.TryDequeue() // "a", true
//	removed := q.TryRemove("b") // true
//	rate := q.GrowthRate()
//
// A removal scan takes queue-local exclusive access, so concurrent Enqueue
// and TryDequeue calls on the same queue wait for the scan to finish rather
// than interleaving with it. Queues never contend with each other.
package queue
