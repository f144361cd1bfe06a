// Package lock implements i.OutputLocker for a single process and across
// processes sharing Redis.
package lock

import (
	"context"
	"sync"

	"github.com/beka-birhanu/wilson-render/service/i"
)

// Local serializes holders of the same key inside one process.
type Local struct {
	mu   sync.Mutex
	keys map[string]chan struct{}
}

// NewLocal creates an empty Local locker.
func NewLocal() i.OutputLocker {
	return &Local{keys: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.keys[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.keys[key] = ch
	}
	return ch
}

// Lock waits for key or for ctx to end. A local lease is never lost.
func (l *Local) Lock(ctx context.Context, key string) (i.Lease, error) {
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &localLease{slot: ch}, nil
}

type localLease struct {
	slot chan struct{}
	once sync.Once
}

func (l *localLease) Lost() <-chan struct{} { return nil }

func (l *localLease) Err() error { return nil }

func (l *localLease) Unlock() error {
	l.once.Do(func() { <-l.slot })
	return nil
}
