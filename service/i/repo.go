package i

import (
	"context"
	"errors"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/google/uuid"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrLeaseLost   = errors.New("output lock lost")
)

// JobStore defines the interface for render job persistence operations.
type JobStore interface {
	// Save inserts or updates a job in the store.
	Save(ctx context.Context, j *job.Job) error

	// ByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if no such job is stored.
	ByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
}

// Lease is a held output lock.
type Lease interface {
	// Lost is closed once the lock can no longer be held.
	Lost() <-chan struct{}

	// Err returns an error wrapping ErrLeaseLost after Lost is closed, nil before.
	Err() error

	// Unlock releases the lock. Later calls do nothing.
	Unlock() error
}

// OutputLocker serializes writers of the same output file.
type OutputLocker interface {
	// Lock blocks until key is held or ctx ends. The lease stays valid until
	// it is unlocked or reports itself lost.
	Lock(ctx context.Context, key string) (Lease, error)
}
