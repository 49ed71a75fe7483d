package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPaymentModeNotFound indicates no payment mode carries the code.
	ErrPaymentModeNotFound = errors.New("commerce: payment mode not found")
	// ErrCarrierNotFound indicates the delivery carrier does not exist.
	ErrCarrierNotFound = errors.New("commerce: carrier not found")
)

// PaymentMode maps a platform payment method code to the local payment
// workflow. Created by operators; imports of orders whose method has no mode
// fail until one is configured.
type PaymentMode struct {
	ID   uuid.UUID
	Name string
	// Code is the platform payment method code, e.g. "paypal" or "cheque".
	Code string
	// DaysBeforeCancel drops unpaid orders older than this many days. Zero
	// disables the rule.
	DaysBeforeCancel int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DeliveryCarrier is a shipping method, bound to the service product used to
// materialize shipping lines.
type DeliveryCarrier struct {
	ID        uuid.UUID
	Name      string
	ProductID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentModeStore persists payment modes.
type PaymentModeStore interface {
	// FindByCode returns the mode carrying the platform code, or
	// ErrPaymentModeNotFound.
	FindByCode(ctx context.Context, code string) (*PaymentMode, error)
}

// CarrierStore persists delivery carriers.
type CarrierStore interface {
	// FindByID returns a carrier or ErrCarrierNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*DeliveryCarrier, error)

	// Create persists a new carrier.
	Create(ctx context.Context, carrier *DeliveryCarrier) error

	// Update overwrites an existing carrier.
	Update(ctx context.Context, carrier *DeliveryCarrier) error
}
