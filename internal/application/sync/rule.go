package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// ---------------------------------------------------------------------------
// Import rules
// ---------------------------------------------------------------------------

// ImportRule decides whether a fetched record should be imported at all. A
// non-empty skip reason drops the record without error; a returned error
// fails the import.
type ImportRule interface {
	Check(ctx context.Context, mc *MapContext, p connector.Payload) (skip string, err error)
}

// Ensure OrderImportRule implements ImportRule
var _ ImportRule = (*OrderImportRule)(nil)

// OrderImportRule gates sale order imports on payment configuration and
// order status.
//
// Orders referencing a payment method with no local payment mode fail with a
// configuration error, since importing them would silently lose payment
// information. Orders left unpaid past the payment mode's cancellation
// window are skipped, as are orders whose status is outside the backend's
// allow-list.
type OrderImportRule struct {
	modes commerce.PaymentModeStore
	now   func() time.Time
}

// NewOrderImportRule creates the standard rule set for sale order imports.
func NewOrderImportRule(modes commerce.PaymentModeStore) *OrderImportRule {
	return &OrderImportRule{modes: modes, now: time.Now}
}

// Check applies the payment mode, payment age and status rules in order.
func (r *OrderImportRule) Check(ctx context.Context, mc *MapContext, p connector.Payload) (string, error) {
	mode, err := r.checkPaymentMode(ctx, p)
	if err != nil {
		return "", err
	}
	if skip := r.checkPaymentAge(p, mode); skip != "" {
		return skip, nil
	}
	return r.checkStatus(mc.Backend, p), nil
}

func (r *OrderImportRule) checkPaymentMode(ctx context.Context, p connector.Payload) (*commerce.PaymentMode, error) {
	code := p.String("payment_method")
	mode, err := r.modes.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, commerce.ErrPaymentModeNotFound) {
			title := p.String("payment_method_title")
			return nil, connector.NewConfigurationError(
				"payment method %q is not configured: create a payment mode with code %q and run the import again",
				title, code)
		}
		return nil, fmt.Errorf("look up payment mode %q: %w", code, err)
	}
	return mode, nil
}

// checkPaymentAge skips orders that stayed unpaid longer than the payment
// mode allows. Modes without a cancellation window admit any age.
func (r *OrderImportRule) checkPaymentAge(p connector.Payload, mode *commerce.PaymentMode) string {
	if mode.DaysBeforeCancel <= 0 {
		return ""
	}
	if _, paid := p.Time("date_paid"); paid {
		return ""
	}
	created, ok := p.Time("date_created")
	if !ok {
		return ""
	}
	deadline := created.Add(time.Duration(mode.DaysBeforeCancel) * 24 * time.Hour)
	if r.now().After(deadline) {
		return fmt.Sprintf("order %s unpaid for more than %d days", p.ID("id"), mode.DaysBeforeCancel)
	}
	return ""
}

// checkStatus skips orders whose status is outside the backend allow-list.
// An empty allow-list admits every status.
func (r *OrderImportRule) checkStatus(backend *connector.Backend, p connector.Payload) string {
	status := p.String("status")
	if backend.StatusImportable(status) {
		return ""
	}
	return fmt.Sprintf("order %s has status %q which is not imported on this backend", p.ID("id"), status)
}
