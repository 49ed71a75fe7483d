package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// ---------------------------------------------------------------------------
// Sync service
// ---------------------------------------------------------------------------

// Service is the application entry point for synchronization. The scheduler
// and the admin API call it; it resolves the backend, runs discovery or a
// single record import through the registry and maintains the per-kind
// watermarks.
type Service struct {
	backends   connector.BackendRepository
	watermarks connector.WatermarkStore
	registry   *Registry
	exporter   *InventoryExporter
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates the sync service.
func NewService(backends connector.BackendRepository, watermarks connector.WatermarkStore, registry *Registry, exporter *InventoryExporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backends:   backends,
		watermarks: watermarks,
		registry:   registry,
		exporter:   exporter,
		logger:     logger,
		now:        time.Now,
	}
}

// ImportCategories discovers product categories modified since the last poll.
func (s *Service) ImportCategories(ctx context.Context, backendID uuid.UUID) (int, error) {
	return s.importSince(ctx, backendID, connector.EntityKindCategory)
}

// ImportProducts discovers products modified since the last poll.
func (s *Service) ImportProducts(ctx context.Context, backendID uuid.UUID) (int, error) {
	return s.importSince(ctx, backendID, connector.EntityKindProduct)
}

// ImportCustomers discovers customers modified since the last poll.
func (s *Service) ImportCustomers(ctx context.Context, backendID uuid.UUID) (int, error) {
	return s.importSince(ctx, backendID, connector.EntityKindCustomer)
}

// ImportOrders discovers orders modified since the last poll.
func (s *Service) ImportOrders(ctx context.Context, backendID uuid.UUID) (int, error) {
	return s.importSince(ctx, backendID, connector.EntityKindOrder)
}

// ImportCarriers sweeps all shipping methods. The platform exposes no
// modification timestamp for them, so every poll is a full sweep and no
// watermark is kept.
func (s *Service) ImportCarriers(ctx context.Context, backendID uuid.UUID) (int, error) {
	backend, err := s.enabledBackend(ctx, backendID)
	if err != nil {
		return 0, err
	}
	batch, err := s.registry.Batch(connector.EntityKindCarrier)
	if err != nil {
		return 0, err
	}
	return batch.Run(ctx, backend, SearchFilters{})
}

// ImportAll runs discovery for every entity kind of a backend, dependencies
// first.
func (s *Service) ImportAll(ctx context.Context, backendID uuid.UUID) error {
	for _, kind := range connector.AllEntityKinds() {
		var err error
		if kind == connector.EntityKindCarrier {
			_, err = s.ImportCarriers(ctx, backendID)
		} else {
			_, err = s.importSince(ctx, backendID, kind)
		}
		if err != nil {
			return fmt.Errorf("discover %s: %w", kind, err)
		}
	}
	return nil
}

// ImportRecord imports one record synchronously, bypassing the queue. The
// admin API uses it for targeted (and forced) re-imports.
func (s *Service) ImportRecord(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string, force bool) (connector.ImportOutcome, error) {
	backend, err := s.enabledBackend(ctx, backendID)
	if err != nil {
		return connector.ImportOutcome{}, err
	}
	importer, err := s.registry.Importer(kind)
	if err != nil {
		return connector.ImportOutcome{}, err
	}
	return importer.Run(ctx, backend, externalID, ImportOptions{Force: force})
}

// ExportInventory pushes the stock level of one product to the backend.
func (s *Service) ExportInventory(ctx context.Context, backendID uuid.UUID, productID uuid.UUID, changedFields []string) error {
	backend, err := s.enabledBackend(ctx, backendID)
	if err != nil {
		return err
	}
	return s.exporter.Run(ctx, backend, productID, changedFields)
}

// importSince runs windowed discovery for one kind. The watermark advances
// to the poll start minus the safety buffer, and only when the whole
// discovery run succeeded; a failed page leaves the watermark alone so the
// next poll re-covers the window.
func (s *Service) importSince(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind) (int, error) {
	backend, err := s.enabledBackend(ctx, backendID)
	if err != nil {
		return 0, err
	}
	batch, err := s.registry.Batch(kind)
	if err != nil {
		return 0, err
	}

	since, err := s.watermarks.Get(ctx, backendID, kind)
	if err != nil {
		return 0, fmt.Errorf("read watermark %s: %w", kind, err)
	}

	pollStart := s.now()
	filters := SearchFilters{To: &pollStart}
	if !since.IsZero() {
		filters.From = &since
	}

	enqueued, err := batch.Run(ctx, backend, filters)
	if err != nil {
		return enqueued, err
	}

	if err := s.watermarks.Advance(ctx, backendID, kind, connector.NextSince(pollStart)); err != nil {
		return enqueued, fmt.Errorf("advance watermark %s: %w", kind, err)
	}

	s.logger.Info("discovery poll finished",
		zap.String("backend", backend.Name),
		zap.String("kind", string(kind)),
		zap.Int("enqueued", enqueued),
		zap.Time("next_since", connector.NextSince(pollStart)),
	)
	return enqueued, nil
}

func (s *Service) enabledBackend(ctx context.Context, backendID uuid.UUID) (*connector.Backend, error) {
	backend, err := s.backends.FindByID(ctx, backendID)
	if err != nil {
		return nil, err
	}
	if !backend.Enabled {
		return nil, fmt.Errorf("%w: %s", connector.ErrBackendDisabled, backend.Name)
	}
	return backend, nil
}
