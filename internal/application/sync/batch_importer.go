package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// ---------------------------------------------------------------------------
// Batch importer
// ---------------------------------------------------------------------------

// DedupeStore suppresses duplicate job enqueues within a short window. Claim
// reports true when the key was absent and is now held, false when another
// enqueue already claimed it.
type DedupeStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// SearchFilters narrows a batch discovery search.
type SearchFilters struct {
	// From and To bound the remote modification window.
	From *time.Time
	To   *time.Time
	// Params are extra backend specific search parameters.
	Params map[string]string
}

// BatchConfig tunes one entity kind's batch importer.
type BatchConfig struct {
	// JobOptions are attached to every enqueued import job.
	JobOptions connector.JobOptions
	// SkipBound suppresses jobs for records that already have a binding.
	// First import wins; bound records are only refreshed through an
	// explicit forced import.
	SkipBound bool
	// DedupeTTL bounds how long an enqueued record suppresses re-enqueues.
	DedupeTTL time.Duration
}

// BatchImporter discovers changed remote records of one entity kind and
// enqueues an import job per record. Discovery pages through the remote
// search endpoint; the page that fails aborts the batch so the watermark is
// not advanced past unseen records.
type BatchImporter struct {
	kind    connector.EntityKind
	clients connector.ClientFactory
	binder  connector.Binder
	queue   connector.JobQueue
	dedupe  DedupeStore
	cfg     BatchConfig
	logger  *zap.Logger
}

// NewBatchImporter creates a batch importer for one entity kind. The dedupe
// store may be nil, in which case every discovered record is enqueued.
func NewBatchImporter(kind connector.EntityKind, clients connector.ClientFactory, binder connector.Binder, queue connector.JobQueue, dedupe DedupeStore, cfg BatchConfig, logger *zap.Logger) *BatchImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 10 * time.Minute
	}
	return &BatchImporter{
		kind:    kind,
		clients: clients,
		binder:  binder,
		queue:   queue,
		dedupe:  dedupe,
		cfg:     cfg,
		logger:  logger,
	}
}

// Kind reports the entity kind this batch importer discovers.
func (b *BatchImporter) Kind() connector.EntityKind { return b.kind }

// Run searches the backend for records matching the filters and enqueues an
// import job per discovered record. It returns the number of jobs enqueued.
func (b *BatchImporter) Run(ctx context.Context, backend *connector.Backend, filters SearchFilters) (int, error) {
	client, err := b.clients.ClientFor(backend)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for offset := 0; ; offset += connector.SearchPageSize {
		params := connector.SearchParams{
			Filters:     filters.Params,
			UpdatedFrom: filters.From,
			UpdatedTo:   filters.To,
			Offset:      offset,
			PerPage:     connector.SearchPageSize,
		}
		page, err := client.Search(ctx, b.kind, params)
		if err != nil {
			return enqueued, fmt.Errorf("search %s at offset %d: %w", b.kind, offset, err)
		}

		for _, summary := range page {
			queued, err := b.enqueue(ctx, backend, summary.ExternalID)
			if err != nil {
				return enqueued, err
			}
			if queued {
				enqueued++
			}
		}

		if len(page) < connector.SearchPageSize {
			break
		}
	}

	b.logger.Info("batch discovery finished",
		zap.String("backend", backend.Name),
		zap.String("kind", string(b.kind)),
		zap.Int("enqueued", enqueued),
	)
	return enqueued, nil
}

func (b *BatchImporter) enqueue(ctx context.Context, backend *connector.Backend, externalID string) (bool, error) {
	if b.cfg.SkipBound {
		bound, err := b.isBound(ctx, backend, externalID)
		if err != nil {
			return false, err
		}
		if bound {
			return false, nil
		}
	}

	if b.dedupe != nil {
		key := fmt.Sprintf("enqueue:%s:%s:%s", backend.ID, b.kind, externalID)
		claimed, err := b.dedupe.Claim(ctx, key, b.cfg.DedupeTTL)
		if err != nil {
			// Dedupe is an optimization; a broken store must not stall
			// discovery.
			b.logger.Warn("dedupe store unavailable, enqueueing anyway", zap.Error(err))
		} else if !claimed {
			return false, nil
		}
	}

	job := connector.ImportJob{
		BackendID:  backend.ID,
		EntityKind: b.kind,
		ExternalID: externalID,
	}
	if err := b.queue.Enqueue(ctx, job, b.cfg.JobOptions); err != nil {
		return false, fmt.Errorf("enqueue %s %s: %w", b.kind, externalID, err)
	}
	return true, nil
}

func (b *BatchImporter) isBound(ctx context.Context, backend *connector.Backend, externalID string) (bool, error) {
	_, err := b.binder.ToInternal(ctx, backend.ID, b.kind, externalID)
	if err != nil {
		if errors.Is(err, connector.ErrBindingNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
