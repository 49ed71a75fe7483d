package cache

import (
	"fmt"

	"go.uber.org/zap"

	appsync "github.com/wooconnect/backend/internal/application/sync"
	"github.com/wooconnect/backend/internal/infrastructure/config"
)

// DedupeStoreFactory creates dedupe stores based on configuration
type DedupeStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// DedupeStoreFactoryOption is a functional option for configuring the factory
type DedupeStoreFactoryOption func(*DedupeStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) DedupeStoreFactoryOption {
	return func(f *DedupeStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory store when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) DedupeStoreFactoryOption {
	return func(f *DedupeStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewDedupeStoreFactory creates a new factory
func NewDedupeStoreFactory(cfg config.RedisConfig, opts ...DedupeStoreFactoryOption) *DedupeStoreFactory {
	f := &DedupeStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based dedupe store
func (f *DedupeStoreFactory) CreateRedisStore() (appsync.DedupeStore, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	store, err := NewRedisDedupeStore(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis dedupe store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory dedupe store
// This is suitable for single-instance deployments and testing
// WARNING: In-memory stores do not share state across process instances,
// which can lead to the same record being enqueued twice in distributed deployments
func (f *DedupeStoreFactory) CreateInMemoryStore() appsync.DedupeStore {
	return NewInMemoryDedupeStore()
}

// CreateStore creates a dedupe store based on configuration.
// When Redis is disabled it returns an in-memory store directly. Otherwise it
// tries Redis first and falls back to in-memory if Redis is unavailable and
// AllowInMemoryFallback is true.
func (f *DedupeStoreFactory) CreateStore() (appsync.DedupeStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory dedupe store")
		return f.CreateInMemoryStore(), nil
	}

	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis dedupe store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for dedupe but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory dedupe store. "+
		"This may cause duplicate job submissions in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
