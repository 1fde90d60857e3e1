package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"leadboard/internal/models"
)

// DefaultKey is where RedisCache stores the snapshot.
const DefaultKey = "leadboard:leads:snapshot"

// RedisCache stores the snapshot as JSON under one key that expires after ttl.
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		key:    DefaultKey,
		ttl:    ttl,
		now:    time.Now,
	}
}

// NewRedisClient connects using a redis:// URL and checks the connection.
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (c *RedisCache) Store(ctx context.Context, records []models.RawRecord) error {
	str, err := json.Marshal(Snapshot{Records: records, StoredAt: c.now()})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return c.client.Set(ctx, c.key, str, c.ttl).Err()
}

func (c *RedisCache) Load(ctx context.Context) (Snapshot, bool, error) {
	str, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		// redis.Nil means the key expired or was never written
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(str), &snapshot); err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, true, nil
}
