package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// ImportRunner executes one record import. Satisfied by the sync service.
type ImportRunner interface {
	ImportRecord(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string, force bool) (connector.ImportOutcome, error)
}

// ProcessorConfig holds configuration for the job processor.
type ProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// BaseRetryDelay is the backoff of the first retry; each further attempt
	// doubles it up to MaxRetryDelay.
	BaseRetryDelay time.Duration
	MaxRetryDelay  time.Duration
}

// DefaultProcessorConfig returns default configuration.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		BatchSize:      20,
		PollInterval:   5 * time.Second,
		BaseRetryDelay: 30 * time.Second,
		MaxRetryDelay:  30 * time.Minute,
	}
}

// Processor drains the job store in the background. Each claimed job runs one
// record import; transient failures go back to pending with exponential
// backoff, terminal failures stay visible for an operator.
type Processor struct {
	store  connector.JobStore
	runner ImportRunner
	config ProcessorConfig
	logger *zap.Logger
	now    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewProcessor creates a new job processor.
func NewProcessor(store connector.JobStore, runner ImportRunner, config ProcessorConfig, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		store:  store,
		runner: runner,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Start starts the background processing.
func (p *Processor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.processLoop(ctx)

	p.logger.Info("job processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the processor.
func (p *Processor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("job processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Processor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch claims and runs one batch of due jobs. Exported so callers can
// drain the queue synchronously, for example right after a manual trigger.
func (p *Processor) ProcessBatch(ctx context.Context) {
	claimed, err := p.store.ClaimDue(ctx, p.now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to claim due jobs", zap.Error(err))
		return
	}

	for i := range claimed {
		p.processJob(ctx, &claimed[i])
	}
}

func (p *Processor) processJob(ctx context.Context, job *connector.Job) {
	job.Attempts++

	outcome, err := p.runner.ImportRecord(ctx, job.BackendID, job.EntityKind, job.ExternalID, job.Force)
	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}

	job.State = connector.JobStateDone
	if outcome.IsSkipped() {
		job.Note = outcome.Reason
		p.logger.Info("import skipped",
			zap.String("job_id", job.ID.String()),
			zap.String("entity_kind", string(job.EntityKind)),
			zap.String("external_id", job.ExternalID),
			zap.String("reason", outcome.Reason),
		)
	} else {
		p.logger.Debug("import completed",
			zap.String("job_id", job.ID.String()),
			zap.String("entity_kind", string(job.EntityKind)),
			zap.String("external_id", job.ExternalID),
		)
	}
	p.save(ctx, job)
}

func (p *Processor) handleFailure(ctx context.Context, job *connector.Job, runErr error) {
	if connector.IsRetryable(runErr) && job.Attempts <= job.MaxRetries {
		job.State = connector.JobStatePending
		job.RunAt = p.now().Add(p.retryDelay(job.Attempts))
		job.Note = runErr.Error()
		p.logger.Warn("import failed, will retry",
			zap.String("job_id", job.ID.String()),
			zap.String("entity_kind", string(job.EntityKind)),
			zap.String("external_id", job.ExternalID),
			zap.Int("attempt", job.Attempts),
			zap.Time("run_at", job.RunAt),
			zap.Error(runErr),
		)
		p.save(ctx, job)
		return
	}

	job.State = connector.JobStateFailed
	job.Note = fmt.Sprintf("%s %s: %s", job.EntityKind, job.ExternalID, runErr.Error())
	p.logger.Error("import failed terminally",
		zap.String("job_id", job.ID.String()),
		zap.String("entity_kind", string(job.EntityKind)),
		zap.String("external_id", job.ExternalID),
		zap.Int("attempts", job.Attempts),
		zap.Error(runErr),
	)
	p.save(ctx, job)
}

// retryDelay doubles the base delay per attempt, capped at MaxRetryDelay.
func (p *Processor) retryDelay(attempt int) time.Duration {
	delay := p.config.BaseRetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.config.MaxRetryDelay {
			return p.config.MaxRetryDelay
		}
	}
	if delay > p.config.MaxRetryDelay {
		return p.config.MaxRetryDelay
	}
	return delay
}

func (p *Processor) save(ctx context.Context, job *connector.Job) {
	job.UpdatedAt = p.now()
	if err := p.store.Save(ctx, job); err != nil {
		p.logger.Error("failed to persist job state",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
	}
}
