// Package jobstore implements i.JobStore in process memory and on Redis.
package jobstore

import (
	"context"
	"errors"
	"sync"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/google/uuid"
)

// Memory keeps job records in a map. Records are copied on the way in and
// out so callers never share them.
type Memory struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]job.Job
}

// NewMemory creates an empty in-memory store.
func NewMemory() i.JobStore {
	return &Memory{jobs: make(map[uuid.UUID]job.Job)}
}

// Save inserts or replaces j.
func (s *Memory) Save(ctx context.Context, j *job.Job) error {
	if j == nil {
		return errors.New("job is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = *j
	return nil
}

// ByID returns a copy of the stored job.
func (s *Memory) ByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, i.ErrJobNotFound
	}
	return &j, nil
}
