package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// ---------------------------------------------------------------------------
// Map context
// ---------------------------------------------------------------------------

// MapContext carries the per-run collaborators a RecordHandler needs while
// mapping and persisting a record: the backend being synchronized, the binder
// for identifier translation and the remote client the record was fetched
// with.
type MapContext struct {
	Backend *connector.Backend
	Binder  connector.Binder
	Client  connector.RemoteClient
}

// Internal resolves an external identifier to the bound internal entity ID.
// It returns a MappingError when no binding exists, which fails the import
// of the record that referenced the identifier.
func (mc *MapContext) Internal(ctx context.Context, kind connector.EntityKind, externalID string) (uuid.UUID, error) {
	binding, err := mc.Binder.ToInternal(ctx, mc.Backend.ID, kind, externalID)
	if err != nil {
		if errors.Is(err, connector.ErrBindingNotFound) {
			return uuid.Nil, connector.NewMappingError(kind, externalID, "no binding for referenced record")
		}
		return uuid.Nil, err
	}
	return binding.InternalID, nil
}

// InternalIfBound resolves an external identifier when a binding exists and
// reports false otherwise. Lookup failures other than a missing binding are
// returned as errors.
func (mc *MapContext) InternalIfBound(ctx context.Context, kind connector.EntityKind, externalID string) (uuid.UUID, bool, error) {
	binding, err := mc.Binder.ToInternal(ctx, mc.Backend.ID, kind, externalID)
	if err != nil {
		if errors.Is(err, connector.ErrBindingNotFound) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}
	return binding.InternalID, true, nil
}

// ---------------------------------------------------------------------------
// Record handler
// ---------------------------------------------------------------------------

// Dependency names a remote record that must be imported before the record
// that references it. When Always is set the dependency is re-imported even
// if it is already bound, so the referencing record sees fresh data.
type Dependency struct {
	Kind       connector.EntityKind
	ExternalID string
	Always     bool
}

// RecordHandler implements the entity specific half of a record import. The
// Importer engine drives the pipeline and calls the handler at each step.
//
// Map must be a pure function of the payload, the bindings and the backend
// configuration: it resolves identifiers and computes values but does not
// write anything. All writes happen in Create, Update and AfterImport.
type RecordHandler interface {
	// Kind reports the entity kind this handler imports.
	Kind() connector.EntityKind

	// Normalize reshapes the raw payload before any other step sees it.
	Normalize(p connector.Payload) connector.Payload

	// Dependencies lists the remote records that must be bound before Map
	// runs.
	Dependencies(p connector.Payload) []Dependency

	// Map translates the payload into handler specific local values.
	Map(ctx context.Context, mc *MapContext, p connector.Payload) (any, error)

	// Create persists a new local entity from mapped values and returns its
	// internal ID.
	Create(ctx context.Context, mc *MapContext, p connector.Payload, values any) (uuid.UUID, error)

	// Update applies mapped values to the already bound local entity.
	Update(ctx context.Context, mc *MapContext, internalID uuid.UUID, values any) error

	// AfterImport runs once the entity is persisted and bound. Errors fail
	// the import; handlers downgrade their own best-effort steps internally.
	AfterImport(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error
}

// WriteOnceHandler marks a RecordHandler whose records are imported once and
// then frozen: a bound record is skipped instead of refreshed, so local edits
// survive later remote changes. Only a forced import rewrites it.
type WriteOnceHandler interface {
	WriteOnce() bool
}

// BaseHandler provides no-op defaults for the optional RecordHandler steps.
// Entity handlers embed it and override what they need.
type BaseHandler struct{}

// Normalize returns the payload unchanged.
func (BaseHandler) Normalize(p connector.Payload) connector.Payload { return p }

// Dependencies reports no dependencies.
func (BaseHandler) Dependencies(connector.Payload) []Dependency { return nil }

// AfterImport does nothing.
func (BaseHandler) AfterImport(context.Context, *MapContext, connector.Payload, *connector.Binding) error {
	return nil
}
