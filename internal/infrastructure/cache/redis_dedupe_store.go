package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	appsync "github.com/wooconnect/backend/internal/application/sync"
)

// RedisDedupeStore implements DedupeStore using Redis
// This is suitable for distributed deployments where multiple instances
// enqueue jobs for the same backends
type RedisDedupeStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisDedupeStore creates a new Redis-based dedupe store
func NewRedisDedupeStore(cfg RedisConfig) (*RedisDedupeStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisDedupeStore{
		client:    client,
		keyPrefix: "sync:dedupe:",
	}, nil
}

// NewRedisDedupeStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisDedupeStoreWithClient(client *redis.Client, keyPrefix string) *RedisDedupeStore {
	if keyPrefix == "" {
		keyPrefix = "sync:dedupe:"
	}
	return &RedisDedupeStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim marks a key as claimed with a TTL
// Returns true if the key was newly claimed, false if another enqueue already
// holds it. Uses SETNX (SET if Not eXists) for atomic operation
func (s *RedisDedupeStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim dedupe key: %w", err)
	}

	return result, nil
}

// Close closes the Redis client
func (s *RedisDedupeStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisDedupeStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisDedupeStore implements DedupeStore
var _ appsync.DedupeStore = (*RedisDedupeStore)(nil)
