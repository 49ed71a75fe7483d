package sync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// ---------------------------------------------------------------------------
// Record importer
// ---------------------------------------------------------------------------

// ImportOptions tunes a single record import.
type ImportOptions struct {
	// Force re-imports the record even when it is already bound.
	Force bool
}

// Importer drives the import of one remote record through a fixed pipeline:
// fetch, normalize, rule check, dependency resolution, map, create or
// update, bind, post-import. Entity specific behavior is delegated to the
// RecordHandler; the optional ImportRule can drop records before any local
// write happens.
type Importer struct {
	handler  RecordHandler
	rule     ImportRule
	binder   connector.Binder
	clients  connector.ClientFactory
	registry *Registry
	logger   *zap.Logger
}

// NewImporter creates a record importer for the handler's entity kind. The
// rule may be nil when the kind has no skip conditions.
func NewImporter(handler RecordHandler, rule ImportRule, binder connector.Binder, clients connector.ClientFactory, registry *Registry, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		handler:  handler,
		rule:     rule,
		binder:   binder,
		clients:  clients,
		registry: registry,
		logger:   logger,
	}
}

// Kind reports the entity kind this importer handles.
func (i *Importer) Kind() connector.EntityKind { return i.handler.Kind() }

// Run imports the remote record identified by externalID into the local
// system. A record that is already bound takes the update path, so remote
// changes reach the local entity on every run; kinds whose handler declares
// WriteOnce (sale orders) are instead skipped without a remote read unless
// opts.Force is set. Running the same import twice yields one local entity
// and one binding.
func (i *Importer) Run(ctx context.Context, backend *connector.Backend, externalID string, opts ImportOptions) (connector.ImportOutcome, error) {
	kind := i.handler.Kind()
	log := i.logger.With(
		zap.String("backend", backend.Name),
		zap.String("kind", string(kind)),
		zap.String("external_id", externalID),
	)

	binding, err := i.existingBinding(ctx, backend, externalID)
	if err != nil {
		return connector.ImportOutcome{}, err
	}
	if binding != nil && !opts.Force && i.writeOnce() {
		log.Debug("record already bound, skipping")
		return connector.Skipped("already imported"), nil
	}

	client, err := i.clients.ClientFor(backend)
	if err != nil {
		return connector.ImportOutcome{}, err
	}
	mc := &MapContext{Backend: backend, Binder: i.binder, Client: client}

	raw, err := client.Read(ctx, kind, externalID)
	if err != nil {
		return connector.ImportOutcome{}, fmt.Errorf("read %s %s: %w", kind, externalID, err)
	}
	payload := i.handler.Normalize(raw)

	if i.rule != nil {
		skip, err := i.rule.Check(ctx, mc, payload)
		if err != nil {
			return connector.ImportOutcome{}, err
		}
		if skip != "" {
			log.Info("record skipped by import rule", zap.String("reason", skip))
			return connector.Skipped(skip), nil
		}
	}

	if err := i.resolveDependencies(ctx, mc, payload); err != nil {
		return connector.ImportOutcome{}, err
	}

	values, err := i.handler.Map(ctx, mc, payload)
	if err != nil {
		return connector.ImportOutcome{}, fmt.Errorf("map %s %s: %w", kind, externalID, err)
	}

	if binding != nil {
		if err := i.handler.Update(ctx, mc, binding.InternalID, values); err != nil {
			return connector.ImportOutcome{}, fmt.Errorf("update %s %s: %w", kind, externalID, err)
		}
		// Refresh the sync timestamp on the existing link.
		if binding, err = i.binder.Bind(ctx, backend.ID, kind, externalID, binding.InternalID); err != nil {
			return connector.ImportOutcome{}, err
		}
	} else {
		internalID, err := i.handler.Create(ctx, mc, payload, values)
		if err != nil {
			return connector.ImportOutcome{}, fmt.Errorf("create %s %s: %w", kind, externalID, err)
		}
		// Bind before AfterImport so child records can resolve the parent.
		if binding, err = i.binder.Bind(ctx, backend.ID, kind, externalID, internalID); err != nil {
			return connector.ImportOutcome{}, err
		}
	}

	if err := i.handler.AfterImport(ctx, mc, payload, binding); err != nil {
		return connector.ImportOutcome{}, fmt.Errorf("post-import %s %s: %w", kind, externalID, err)
	}

	log.Info("record imported", zap.String("internal_id", binding.InternalID.String()))
	return connector.Imported(), nil
}

// writeOnce reports whether bound records of this kind are frozen after the
// first import.
func (i *Importer) writeOnce() bool {
	if h, ok := i.handler.(WriteOnceHandler); ok {
		return h.WriteOnce()
	}
	return false
}

func (i *Importer) existingBinding(ctx context.Context, backend *connector.Backend, externalID string) (*connector.Binding, error) {
	binding, err := i.binder.ToInternal(ctx, backend.ID, i.handler.Kind(), externalID)
	if err != nil {
		if errors.Is(err, connector.ErrBindingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return binding, nil
}

// resolveDependencies imports every record the payload references before the
// record itself is mapped. Dependencies marked Always are refreshed even
// when already bound. A failed dependency fails the whole import.
func (i *Importer) resolveDependencies(ctx context.Context, mc *MapContext, p connector.Payload) error {
	for _, dep := range i.handler.Dependencies(p) {
		if dep.ExternalID == "" {
			continue
		}
		if !dep.Always {
			if _, bound, err := mc.InternalIfBound(ctx, dep.Kind, dep.ExternalID); err != nil {
				return err
			} else if bound {
				continue
			}
		}
		depImporter, err := i.registry.Importer(dep.Kind)
		if err != nil {
			return err
		}
		if _, err := depImporter.Run(ctx, mc.Backend, dep.ExternalID, ImportOptions{Force: dep.Always}); err != nil {
			return fmt.Errorf("import dependency %s %s: %w", dep.Kind, dep.ExternalID, err)
		}
	}
	return nil
}
