package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/wilson-render/service/i"
)

// extender is the part of *redsync.Mutex a lease drives.
type extender interface {
	ExtendContext(ctx context.Context) (bool, error)
	UnlockContext(ctx context.Context) (bool, error)
}

// lease extends its mutex every interval until it is unlocked or an
// extension fails.
type lease struct {
	mutex    extender
	interval time.Duration

	lost chan struct{}
	stop chan struct{}
	done chan struct{}

	mu        sync.Mutex
	err       error
	once      sync.Once
	unlockErr error
}

func keepAlive(mutex extender, interval time.Duration) *lease {
	l := &lease{
		mutex:    mutex,
		interval: interval,
		lost:     make(chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.extendLoop()
	return l
}

func (l *lease) extendLoop() {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			if err := l.extend(); err != nil {
				l.mu.Lock()
				l.err = err
				l.mu.Unlock()
				close(l.lost)
				return
			}
		}
	}
}

func (l *lease) extend() error {
	ctx, cancel := context.WithTimeout(context.Background(), l.interval)
	defer cancel()
	ok, err := l.mutex.ExtendContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: extending: %v", i.ErrLeaseLost, err)
	}
	if !ok {
		return fmt.Errorf("%w: extension refused", i.ErrLeaseLost)
	}
	return nil
}

func (l *lease) Lost() <-chan struct{} { return l.lost }

func (l *lease) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Unlock stops the extensions and releases the mutex.
func (l *lease) Unlock() error {
	l.once.Do(func() {
		close(l.stop)
		<-l.done
		ctx, cancel := context.WithTimeout(context.Background(), l.interval)
		defer cancel()
		_, l.unlockErr = l.mutex.UnlockContext(ctx)
	})
	return l.unlockErr
}
