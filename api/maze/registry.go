package mazeapi

import (
	"sync"

	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/google/uuid"
)

// registry keeps the most recent finished mazes, evicting the oldest.
type registry struct {
	mu    sync.RWMutex
	limit int
	order []uuid.UUID
	mazes map[uuid.UUID]*maze.Maze
}

func newRegistry(limit int) *registry {
	return &registry{
		limit: limit,
		mazes: make(map[uuid.UUID]*maze.Maze, limit),
	}
}

func (r *registry) put(id uuid.UUID, m *maze.Maze) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mazes[id]; !ok {
		r.order = append(r.order, id)
	}
	r.mazes[id] = m
	for len(r.order) > r.limit {
		delete(r.mazes, r.order[0])
		r.order = r.order[1:]
	}
}

func (r *registry) get(id uuid.UUID) (*maze.Maze, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mazes[id]
	return m, ok
}
