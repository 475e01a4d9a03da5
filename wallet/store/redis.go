package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultStateKey = "wallet:state"

// ErrRedisClientRequired is returned when constructing a store without a client.
var ErrRedisClientRequired = errors.New("redis client is required")

// RedisStore persists the snapshot as a JSON blob under a single key.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// Compile-time assertion: *RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// RedisOption configures the Redis store.
type RedisOption func(*RedisStore)

// WithStateKey overrides the default state key.
func WithStateKey(key string) RedisOption {
	return func(redisStore *RedisStore) {
		if key != "" {
			redisStore.key = key
		}
	}
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrRedisClientRequired
	}

	redisStore := &RedisStore{
		client: client,
		key:    defaultStateKey,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(redisStore)
		}
	}

	return redisStore, nil
}

// Load returns the persisted snapshot, or defaults when the key is absent.
func (redisStore *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	blob, err := redisStore.client.Get(ctx, redisStore.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return DefaultSnapshot(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("load snapshot from redis: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &snapshot, nil
}

// Save persists the snapshot without expiry.
func (redisStore *RedisStore) Save(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return ErrSnapshotRequired
	}

	blob, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := redisStore.client.Set(ctx, redisStore.key, blob, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot to redis: %w", err)
	}

	return nil
}
