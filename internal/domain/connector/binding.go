package connector

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Binding
// ---------------------------------------------------------------------------

// Binding pairs one local entity with one remote record for one backend.
// For a given (backend, kind, externalID) at most one binding exists; for a
// given (backend, kind, internalID) at most one primary binding exists.
// Secondary synthetic bindings (for example the "<id>_shipping" address twin
// of a customer) share the internal namespace but carry a suffixed external
// id and are never primary.
type Binding struct {
	// ID is the unique identifier of the binding row.
	ID uuid.UUID
	// BackendID is the backend connection this binding belongs to.
	BackendID uuid.UUID
	// EntityKind is the kind of record bound.
	EntityKind EntityKind
	// ExternalID is the id of the record on the platform. Remote ids are not
	// guaranteed numeric; synthetic ids like "7_shipping" are valid.
	ExternalID string
	// InternalID references the local entity.
	InternalID uuid.UUID
	// LastSyncedAt is refreshed on every successful synchronization.
	LastSyncedAt time.Time
	// CreatedAt is when the binding was first established.
	CreatedAt time.Time
	// UpdatedAt is when the binding row was last written.
	UpdatedAt time.Time
}

// NewBinding creates a binding for the given correspondence.
func NewBinding(backendID uuid.UUID, kind EntityKind, externalID string, internalID uuid.UUID) (*Binding, error) {
	if backendID == uuid.Nil || internalID == uuid.Nil || externalID == "" || !kind.IsValid() {
		return nil, ErrBindingNotFound
	}
	now := time.Now()
	return &Binding{
		ID:           uuid.New(),
		BackendID:    backendID,
		EntityKind:   kind,
		ExternalID:   externalID,
		InternalID:   internalID,
		LastSyncedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ShippingSuffix marks the synthetic shipping address twin of a customer.
// Only suffixed ids are secondary; platform ids may contain underscores of
// their own, like the "flat_rate" carrier.
const ShippingSuffix = "_shipping"

// IsSecondary reports whether the binding is a synthetic twin rather than the
// primary correspondence for its internal entity.
func (b *Binding) IsSecondary() bool {
	return strings.HasSuffix(b.ExternalID, ShippingSuffix)
}

// ShippingExternalID returns the synthetic external id of the shipping
// address twin for a customer external id.
func ShippingExternalID(externalID string) string {
	return externalID + ShippingSuffix
}

// ---------------------------------------------------------------------------
// Binder
// ---------------------------------------------------------------------------

// Binder is the single source of truth preventing duplicate creation of
// local entities. It has no network side effects; all persistence goes
// through the underlying binding store.
type Binder interface {
	// ToInternal looks up the binding for an external id. Returns
	// ErrBindingNotFound when no binding exists and ErrAmbiguousBinding when
	// the lookup matches more than one row.
	ToInternal(ctx context.Context, backendID uuid.UUID, kind EntityKind, externalID string) (*Binding, error)

	// Bind creates or repoints the binding for an external id. Idempotent:
	// calling it twice with identical arguments converges to a single row.
	// Concurrent calls for the same (backend, kind, externalID) must also
	// converge, which requires an upsert against a storage-level uniqueness
	// constraint rather than an application-level check-then-act.
	Bind(ctx context.Context, backendID uuid.UUID, kind EntityKind, externalID string, internalID uuid.UUID) (*Binding, error)

	// ToExternal returns the external id of the primary binding for a local
	// entity, or ErrBindingNotFound.
	ToExternal(ctx context.Context, backendID uuid.UUID, kind EntityKind, internalID uuid.UUID) (string, error)
}

// BindingRepository is the persistence port behind the Binder.
type BindingRepository interface {
	// FindByExternal returns all bindings matching the external id. More than
	// one result signals corruption, which the Binder reports.
	FindByExternal(ctx context.Context, backendID uuid.UUID, kind EntityKind, externalID string) ([]Binding, error)

	// FindPrimaryByInternal returns the primary (unsuffixed) binding of a
	// local entity, or ErrBindingNotFound.
	FindPrimaryByInternal(ctx context.Context, backendID uuid.UUID, kind EntityKind, internalID uuid.UUID) (*Binding, error)

	// Upsert atomically creates or updates the binding keyed by
	// (backend, kind, externalID), refreshing LastSyncedAt.
	Upsert(ctx context.Context, binding *Binding) error

	// Delete removes a binding. Deletion is an explicit local operation
	// cascading from entity deletion; bindings are never implicitly removed.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByBackend lists bindings of a backend for the admin surface.
	FindByBackend(ctx context.Context, backendID uuid.UUID, kind EntityKind, limit, offset int) ([]Binding, error)
}
