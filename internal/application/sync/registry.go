package sync

import (
	"fmt"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// Registry resolves the importer and batch importer for an entity kind. It
// is populated once at startup and read-only afterwards, so access needs no
// locking.
type Registry struct {
	importers map[connector.EntityKind]*Importer
	batches   map[connector.EntityKind]*BatchImporter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		importers: make(map[connector.EntityKind]*Importer),
		batches:   make(map[connector.EntityKind]*BatchImporter),
	}
}

// RegisterImporter registers the record importer for its entity kind.
func (r *Registry) RegisterImporter(imp *Importer) {
	r.importers[imp.Kind()] = imp
}

// RegisterBatch registers the batch importer for its entity kind.
func (r *Registry) RegisterBatch(b *BatchImporter) {
	r.batches[b.Kind()] = b
}

// Importer returns the record importer for the given kind.
func (r *Registry) Importer(kind connector.EntityKind) (*Importer, error) {
	imp, ok := r.importers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no importer for %q", connector.ErrUnknownEntityKind, kind)
	}
	return imp, nil
}

// Batch returns the batch importer for the given kind.
func (r *Registry) Batch(kind connector.EntityKind) (*BatchImporter, error) {
	b, ok := r.batches[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no batch importer for %q", connector.ErrUnknownEntityKind, kind)
	}
	return b, nil
}
