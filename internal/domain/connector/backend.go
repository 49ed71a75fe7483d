package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Backend
// ---------------------------------------------------------------------------

// QtyField selects how the quantity pushed by the inventory exporter is
// computed from local stock.
type QtyField string

const (
	// QtyFieldAvailable exports the on-hand quantity.
	QtyFieldAvailable QtyField = "qty_available"
	// QtyFieldAvailableNotReserved exports the immediately usable quantity
	// (on hand minus reservations).
	QtyFieldAvailableNotReserved QtyField = "qty_available_not_res"
)

// IsValid returns true if the quantity field selector is valid.
func (f QtyField) IsValid() bool {
	switch f {
	case QtyFieldAvailable, QtyFieldAvailableNotReserved:
		return true
	default:
		return false
	}
}

// Backend is a WooCommerce store connection: credentials, admission
// configuration and the products used to materialize shipping and fee lines
// on imported orders.
type Backend struct {
	// ID is the unique identifier of the backend.
	ID uuid.UUID
	// Name is the operator-facing label.
	Name string
	// Location is the store URL.
	Location string
	// ConsumerKey authenticates API requests.
	ConsumerKey string
	// ConsumerSecret authenticates API requests.
	ConsumerSecret string
	// Version is the remote API version, e.g. "wc/v2".
	Version string
	// VerifySSL controls TLS certificate verification.
	VerifySSL bool
	// Enabled gates all synchronization for this backend.
	Enabled bool

	// ImportableOrderStatuses is an allow-list of remote order statuses. When
	// empty, every status is importable.
	ImportableOrderStatuses []string
	// MatchingProduct binds imported products to an existing local product
	// with the same SKU instead of creating a duplicate.
	MatchingProduct bool
	// ProductQtyField selects the stock projection pushed by the exporter.
	ProductQtyField QtyField
	// ShippingProductID is the local product used for shipping lines.
	ShippingProductID uuid.UUID
	// FeeProductID is the local product used for fee lines.
	FeeProductID uuid.UUID
	// PartnerVATField names the remote metadata field carrying VAT numbers.
	PartnerVATField string

	// SyncInterval is how often the scheduler polls this backend.
	SyncInterval time.Duration

	// CreatedAt is when the backend was configured.
	CreatedAt time.Time
	// UpdatedAt is when the configuration last changed.
	UpdatedAt time.Time
}

// Validate checks that the connection configuration is complete.
func (b *Backend) Validate() error {
	if b.ID == uuid.Nil || b.Name == "" || b.Location == "" {
		return ErrInvalidBackend
	}
	if b.ConsumerKey == "" || b.ConsumerSecret == "" {
		return ErrInvalidBackend
	}
	if b.ProductQtyField != "" && !b.ProductQtyField.IsValid() {
		return ErrInvalidBackend
	}
	return nil
}

// StatusImportable reports whether a remote order status passes the
// allow-list. An empty allow-list admits everything.
func (b *Backend) StatusImportable(status string) bool {
	if len(b.ImportableOrderStatuses) == 0 {
		return true
	}
	for _, s := range b.ImportableOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// BackendRepository persists backend connections.
type BackendRepository interface {
	// FindByID returns a backend or ErrBackendNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Backend, error)

	// FindEnabled returns all enabled backends.
	FindEnabled(ctx context.Context) ([]Backend, error)

	// FindAll returns every configured backend, enabled or not.
	FindAll(ctx context.Context) ([]Backend, error)

	// Save creates or updates a backend.
	Save(ctx context.Context, backend *Backend) error
}
