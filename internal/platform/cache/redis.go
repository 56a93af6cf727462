package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// New creates a new Redis client.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("platform/cache: ping: %w", err)
	}

	return client, nil
}

// ErrMiss indicates no snapshot is stored under the key.
var ErrMiss = errors.New("platform/cache: miss")

// Snapshot stores and loads JSON-encoded values under a fixed key. The
// supplier directory uses it to keep the last good feed payload across
// restarts.
type Snapshot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSnapshot builds a Snapshot store. A nil client disables it.
func NewSnapshot(client *redis.Client, key string, ttl time.Duration) *Snapshot {
	return &Snapshot{client: client, key: key, ttl: ttl}
}

// Save encodes value and writes it with the configured TTL.
func (s *Snapshot) Save(ctx context.Context, value any) error {
	if s == nil || s.client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("platform/cache: encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: save snapshot: %w", err)
	}
	return nil
}

// Load decodes the stored payload into target. Returns ErrMiss when the key
// is absent or the snapshot store is disabled.
func (s *Snapshot) Load(ctx context.Context, target any) error {
	if s == nil || s.client == nil {
		return ErrMiss
	}
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("platform/cache: load snapshot: %w", err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("platform/cache: decode snapshot: %w", err)
	}
	return nil
}
