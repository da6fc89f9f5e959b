package queue

import "time"

// DefaultMaxWaitingTime is the waiting-time threshold above which the
// balanced-dequeue policy treats a queue as starved.
const DefaultMaxWaitingTime = 10 * time.Minute

// OpKind categorizes the mutating operations recorded in a queue's history.
type OpKind string

const (
	OpEnqueue OpKind = "enqueue"
	OpDequeue OpKind = "dequeue"
	OpRemoval OpKind = "removal"
)

// Operation is a single timestamped history record. Operations are created
// once per successful mutating call and never modified afterwards.
type Operation struct {
	At   time.Time `json:"at"`
	Kind OpKind    `json:"kind"`
}

// QueueStats provides observability metrics for a single queue.
type QueueStats struct {
	Items     int       // Current number of queued items
	Enqueues  int64     // Enqueue operations recorded since the last reset
	Dequeues  int64     // Dequeue operations recorded since the last reset
	Removals  int64     // Removal operations recorded since the last reset
	CreatedAt time.Time // When the queue was constructed
}

// RegistryStats provides observability metrics for a registry and its
// cleanup scheduler.
type RegistryStats struct {
	Queues         int   // Number of managed queues
	Items          int   // Total items across all managed queues
	ResetsRun      int64 // Cleanup passes performed by the scheduler
	CleanupRunning bool  // Whether the cleanup scheduler is running
}
