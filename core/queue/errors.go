package queue

import "errors"

var (
	// ErrNoIndices is returned when a registry is constructed with an empty index set.
	ErrNoIndices = errors.New("registry requires at least one queue index")

	// ErrDuplicateIndex is returned when a registry is constructed with repeated indices.
	ErrDuplicateIndex = errors.New("duplicate queue index")

	// ErrInvalidCleanupPolicy is returned when a cleanup policy fails validation.
	ErrInvalidCleanupPolicy = errors.New("invalid cleanup policy")

	// ErrUnknownIndex is returned by restricted dequeue calls that reference an unmanaged index.
	ErrUnknownIndex = errors.New("queue index is not managed")

	// ErrCleanupNotRunning indicates the cleanup scheduler has stopped or was never enabled.
	ErrCleanupNotRunning = errors.New("cleanup scheduler is not running")

	// ErrRegistryClosed indicates the registry has been torn down.
	ErrRegistryClosed = errors.New("registry is closed")

	// ErrHealthcheckFailed is joined with the specific cause by Healthcheck.
	ErrHealthcheckFailed = errors.New("healthcheck failed")
)
