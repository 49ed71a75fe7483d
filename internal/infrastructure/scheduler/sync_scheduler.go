// Package scheduler runs periodic imports for every enabled store connection.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// BatchRunner runs a full import cycle for one backend
type BatchRunner interface {
	ImportAll(ctx context.Context, backendID uuid.UUID) error
}

// SyncSchedulerConfig holds configuration for the sync scheduler
type SyncSchedulerConfig struct {
	// CheckInterval is how often the scheduler looks for due backends
	CheckInterval time.Duration
	// DefaultSyncInterval is used when a backend has no interval configured
	DefaultSyncInterval time.Duration
	// MinSyncInterval is the floor applied to per-backend intervals
	MinSyncInterval time.Duration
	// BackendTimeout is the maximum time one backend cycle may run
	BackendTimeout time.Duration
}

// DefaultSyncSchedulerConfig returns default configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		CheckInterval:       30 * time.Second,
		DefaultSyncInterval: 15 * time.Minute,
		MinSyncInterval:     1 * time.Minute,
		BackendTimeout:      15 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncSchedulerConfig) Validate() error {
	if c.CheckInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.MinSyncInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.DefaultSyncInterval < c.MinSyncInterval {
		return ErrInvalidConfig
	}
	if c.BackendTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncScheduler polls enabled backends and triggers a full import cycle
// whenever a backend's sync interval has elapsed.
type SyncScheduler struct {
	config   SyncSchedulerConfig
	backends connector.BackendRepository
	runner   BatchRunner
	logger   *zap.Logger

	now func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// lastRun tracks the last attempt per backend so a failing backend
	// waits a full interval before the next attempt.
	lastMu  sync.Mutex
	lastRun map[uuid.UUID]time.Time
}

// NewSyncScheduler creates a new sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, backends connector.BackendRepository, runner BatchRunner, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &SyncScheduler{
		config:   config,
		backends: backends,
		runner:   runner,
		logger:   logger,
		now:      time.Now,
		lastRun:  make(map[uuid.UUID]time.Time),
	}, nil
}

// Start starts the scheduler
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("check_interval", s.config.CheckInterval),
		zap.Duration("default_sync_interval", s.config.DefaultSyncInterval),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Sync scheduler stop timed out")
		return ctx.Err()
	}
}

// runLoop checks periodically for backends whose interval has elapsed
func (s *SyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunDue(ctx)
		}
	}
}

// RunDue runs one scheduling pass: every enabled backend whose interval has
// elapsed gets a full import cycle. Backends run sequentially so a single
// slow store cannot starve the database pool.
func (s *SyncScheduler) RunDue(ctx context.Context) {
	backends, err := s.backends.FindEnabled(ctx)
	if err != nil {
		s.logger.Error("Failed to load enabled backends", zap.Error(err))
		return
	}

	now := s.now()
	for i := range backends {
		backend := &backends[i]
		if !s.due(backend, now) {
			continue
		}
		s.runBackend(ctx, backend)
	}
}

// due reports whether a backend's sync interval has elapsed
func (s *SyncScheduler) due(backend *connector.Backend, now time.Time) bool {
	interval := backend.SyncInterval
	if interval <= 0 {
		interval = s.config.DefaultSyncInterval
	}
	if interval < s.config.MinSyncInterval {
		interval = s.config.MinSyncInterval
	}

	s.lastMu.Lock()
	last, seen := s.lastRun[backend.ID]
	s.lastMu.Unlock()

	return !seen || now.Sub(last) >= interval
}

// runBackend runs one import cycle and records the attempt
func (s *SyncScheduler) runBackend(ctx context.Context, backend *connector.Backend) {
	s.lastMu.Lock()
	s.lastRun[backend.ID] = s.now()
	s.lastMu.Unlock()

	s.logger.Info("Starting scheduled import cycle",
		zap.String("backend_id", backend.ID.String()),
		zap.String("backend_name", backend.Name),
	)

	runCtx, cancel := context.WithTimeout(ctx, s.config.BackendTimeout)
	defer cancel()

	if err := s.runner.ImportAll(runCtx, backend.ID); err != nil {
		s.logger.Error("Scheduled import cycle failed",
			zap.String("backend_id", backend.ID.String()),
			zap.String("backend_name", backend.Name),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled import cycle completed",
		zap.String("backend_id", backend.ID.String()),
		zap.String("backend_name", backend.Name),
	)
}

// TriggerBackend runs an import cycle for one backend immediately,
// regardless of its interval.
func (s *SyncScheduler) TriggerBackend(ctx context.Context, backendID uuid.UUID) error {
	s.mu.Lock()
	running := s.isRunning
	s.mu.Unlock()
	if !running {
		return ErrSchedulerNotRunning
	}

	backend, err := s.backends.FindByID(ctx, backendID)
	if err != nil {
		return err
	}
	if !backend.Enabled {
		return connector.ErrBackendDisabled
	}

	s.runBackend(ctx, backend)
	return nil
}
