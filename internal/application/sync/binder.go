package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure Binder implements the domain port
var _ connector.Binder = (*Binder)(nil)

// Binder translates external record identifiers to internal entity IDs and
// back on top of a BindingRepository. Bind is an idempotent upsert keyed on
// (backend, kind, external ID), so re-importing a record refreshes the
// existing link instead of duplicating it.
type Binder struct {
	bindings connector.BindingRepository
	now      func() time.Time
}

// NewBinder creates a Binder backed by the given repository.
func NewBinder(bindings connector.BindingRepository) *Binder {
	return &Binder{bindings: bindings, now: time.Now}
}

// ToInternal resolves an external identifier to its binding. It returns
// ErrBindingNotFound when no binding exists and ErrAmbiguousBinding when more
// than one row matches, which indicates a corrupted binding table.
func (b *Binder) ToInternal(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string) (*connector.Binding, error) {
	found, err := b.bindings.FindByExternal(ctx, backendID, kind, externalID)
	if err != nil {
		return nil, fmt.Errorf("find binding %s %s: %w", kind, externalID, err)
	}
	switch len(found) {
	case 0:
		return nil, connector.ErrBindingNotFound
	case 1:
		binding := found[0]
		return &binding, nil
	default:
		return nil, fmt.Errorf("%w: %s %s has %d bindings", connector.ErrAmbiguousBinding, kind, externalID, len(found))
	}
}

// Bind records the link between an external record and a local entity. An
// existing binding for the same external identifier is refreshed in place.
func (b *Binder) Bind(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string, internalID uuid.UUID) (*connector.Binding, error) {
	existing, err := b.ToInternal(ctx, backendID, kind, externalID)
	if err != nil && !errors.Is(err, connector.ErrBindingNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.InternalID = internalID
		existing.LastSyncedAt = b.now()
		existing.UpdatedAt = existing.LastSyncedAt
		if err := b.bindings.Upsert(ctx, existing); err != nil {
			return nil, fmt.Errorf("refresh binding %s %s: %w", kind, externalID, err)
		}
		return existing, nil
	}

	binding, err := connector.NewBinding(backendID, kind, externalID, internalID)
	if err != nil {
		return nil, err
	}
	binding.LastSyncedAt = b.now()
	if err := b.bindings.Upsert(ctx, binding); err != nil {
		return nil, fmt.Errorf("create binding %s %s: %w", kind, externalID, err)
	}
	return binding, nil
}

// ToExternal resolves a local entity to the external identifier of its
// primary binding. Secondary bindings, such as the shipping twin of a
// customer, are never returned.
func (b *Binder) ToExternal(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, internalID uuid.UUID) (string, error) {
	binding, err := b.bindings.FindPrimaryByInternal(ctx, backendID, kind, internalID)
	if err != nil {
		return "", err
	}
	if binding == nil {
		return "", connector.ErrBindingNotFound
	}
	return binding.ExternalID, nil
}
