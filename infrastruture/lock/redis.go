package lock

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultExpiry   = 30 * time.Second
	defaultTries    = 64
	outputLockSufix = ":output_lock"
)

// Redis holds one redsync mutex per key, shared by every process that uses
// the same Redis.
type Redis struct {
	locker *redsync.Redsync
	expiry time.Duration
	tries  int
}

// NewRedis initializes a Redis locker. A non-positive expiry defaults to
// thirty seconds. Held locks are extended every third of the expiry.
func NewRedis(client *redis.Client, expiry time.Duration) (i.OutputLocker, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	pool := goredis.NewPool(client)
	return &Redis{
		locker: redsync.New(pool),
		expiry: expiry,
		tries:  defaultTries,
	}, nil
}

// Lock acquires the mutex for key, retrying until the tries run out or ctx
// ends, and keeps extending it until the lease is unlocked.
func (r *Redis) Lock(ctx context.Context, key string) (i.Lease, error) {
	mutex := r.locker.NewMutex(key+outputLockSufix, redsync.WithExpiry(r.expiry), redsync.WithTries(r.tries))
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}
	return keepAlive(mutex, r.expiry/3), nil
}
