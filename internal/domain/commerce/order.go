package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound indicates the sale order does not exist.
	ErrOrderNotFound = errors.New("commerce: sale order not found")
)

// OrderLineKind distinguishes product lines from the shipping and fee lines
// materialized after import.
type OrderLineKind string

const (
	// OrderLineKindProduct is an ordinary product line.
	OrderLineKindProduct OrderLineKind = "product"
	// OrderLineKindShipping is the shipping charge line.
	OrderLineKindShipping OrderLineKind = "shipping"
	// OrderLineKindFee is an extra fee line.
	OrderLineKindFee OrderLineKind = "fee"
)

// SaleOrderLine is one line of a sale order.
type SaleOrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID *uuid.UUID
	Name      string
	Kind      OrderLineKind
	Quantity  decimal.Decimal
	PriceUnit decimal.Decimal
	Sequence  int
	CreatedAt time.Time
}

// SaleOrder is a local sale order converted from a platform order.
type SaleOrder struct {
	ID                uuid.UUID
	Number            string
	Note              string
	Status            string
	PartnerID         uuid.UUID
	ShippingPartnerID *uuid.UUID
	PaymentModeID     uuid.UUID
	CarrierID         *uuid.UUID
	TotalAmount       decimal.Decimal
	TotalTax          decimal.Decimal
	ShippingTotal     decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NextSequence returns the sequence number for a line appended after the
// given existing lines.
func NextSequence(lines []SaleOrderLine) int {
	max := 0
	for _, l := range lines {
		if l.Sequence > max {
			max = l.Sequence
		}
	}
	return max + 1
}

// OrderStore persists sale orders and their lines.
type OrderStore interface {
	// FindByID returns an order or ErrOrderNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*SaleOrder, error)

	// Create persists a new order without lines.
	Create(ctx context.Context, order *SaleOrder) error

	// Update overwrites order header fields.
	Update(ctx context.Context, order *SaleOrder) error

	// AddLine appends a line to an order.
	AddLine(ctx context.Context, line *SaleOrderLine) error

	// Lines returns the lines of an order ordered by sequence.
	Lines(ctx context.Context, orderID uuid.UUID) ([]SaleOrderLine, error)

	// ReplaceLines removes the existing lines of an order and inserts the
	// given ones. Used when a forced re-import refreshes an order.
	ReplaceLines(ctx context.Context, orderID uuid.UUID, lines []SaleOrderLine) error
}
