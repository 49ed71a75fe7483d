package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Watermark
// ---------------------------------------------------------------------------

// ImportDeltaBuffer is subtracted from the poll start time before storing a
// watermark, tolerating clock skew between the sync host and the platform.
// Never zero: exact-boundary equality on updated_at loses records otherwise.
const ImportDeltaBuffer = 30 * time.Second

// NextSince computes the watermark value to store after a successful
// discovery poll that started at pollStart. The poll start time is used
// rather than "now" so that records updated during a long-running poll are
// re-discovered on the next cycle.
func NextSince(pollStart time.Time) time.Time {
	return pollStart.Add(-ImportDeltaBuffer)
}

// Watermark bounds the next incremental discovery poll for one backend and
// entity kind.
type Watermark struct {
	BackendID  uuid.UUID
	EntityKind EntityKind
	Since      time.Time
	UpdatedAt  time.Time
}

// WatermarkStore persists per-backend, per-kind watermarks.
type WatermarkStore interface {
	// Get returns the stored watermark, or the zero time when the kind has
	// never been polled (first sync imports everything).
	Get(ctx context.Context, backendID uuid.UUID, kind EntityKind) (time.Time, error)

	// Advance stores the watermark. Callers advance only after a fully
	// successful discovery run, passing NextSince(pollStart).
	Advance(ctx context.Context, backendID uuid.UUID, kind EntityKind, since time.Time) error
}
