package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "wilson"
	jobKeyFmt     = "%s:job:%s"
)

// Redis stores job records as JSON strings that expire after a TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis initializes a Redis job store with the provided client and TTL.
// An empty prefix defaults to "wilson".
func NewRedis(client *redis.Client, prefix string, ttlSeconds int) (i.JobStore, error) {
	if client == nil {
		return nil, errors.New("redis client is nil")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{
		client: client,
		prefix: prefix,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (s *Redis) key(id uuid.UUID) string {
	return fmt.Sprintf(jobKeyFmt, s.prefix, id)
}

// Save writes j and resets its expiry.
func (s *Redis) Save(ctx context.Context, j *job.Job) error {
	if j == nil {
		return errors.New("job is nil")
	}
	data, err := json.Marshal(j)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(j.ID), data, s.ttl).Err()
}

// ByID loads a job, returning i.ErrJobNotFound when the key is missing or expired.
func (s *Redis) ByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, i.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var j job.Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decoding job %s: %w", id, err)
	}
	return &j, nil
}
