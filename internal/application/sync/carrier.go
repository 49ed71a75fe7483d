package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure CarrierHandler implements RecordHandler
var _ RecordHandler = (*CarrierHandler)(nil)

// carrierValues are the mapped local values of a remote shipping method.
type carrierValues struct {
	Name      string
	ProductID uuid.UUID
}

// CarrierHandler imports shipping methods as delivery carriers. Carriers
// have no modification timestamp on the platform, so they are always
// discovered with a full sweep rather than an incremental window.
type CarrierHandler struct {
	BaseHandler
	carriers commerce.CarrierStore
}

// NewCarrierHandler creates the carrier record handler.
func NewCarrierHandler(carriers commerce.CarrierStore) *CarrierHandler {
	return &CarrierHandler{carriers: carriers}
}

// Kind reports the carrier entity kind.
func (h *CarrierHandler) Kind() connector.EntityKind { return connector.EntityKindCarrier }

// Map translates the payload into carrier values. The carrier rides on the
// backend's shipping service product.
func (h *CarrierHandler) Map(ctx context.Context, mc *MapContext, p connector.Payload) (any, error) {
	name := p.String("title")
	if name == "" {
		name = p.ID("id")
	}
	if name == "" {
		return nil, connector.NewMappingError(h.Kind(), p.ID("id"), "shipping method has no title")
	}
	if mc.Backend.ShippingProductID == uuid.Nil {
		return nil, connector.NewConfigurationError(
			"backend %q has no shipping product configured for carrier imports", mc.Backend.Name)
	}
	return carrierValues{Name: name, ProductID: mc.Backend.ShippingProductID}, nil
}

// Create persists a new delivery carrier.
func (h *CarrierHandler) Create(ctx context.Context, mc *MapContext, p connector.Payload, values any) (uuid.UUID, error) {
	v := values.(carrierValues)
	now := time.Now()
	carrier := &commerce.DeliveryCarrier{
		ID:        uuid.New(),
		Name:      v.Name,
		ProductID: v.ProductID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.carriers.Create(ctx, carrier); err != nil {
		return uuid.Nil, err
	}
	return carrier.ID, nil
}

// Update applies the mapped values to the bound carrier.
func (h *CarrierHandler) Update(ctx context.Context, mc *MapContext, internalID uuid.UUID, values any) error {
	v := values.(carrierValues)
	carrier, err := h.carriers.FindByID(ctx, internalID)
	if err != nil {
		return fmt.Errorf("load carrier %s: %w", internalID, err)
	}
	carrier.Name = v.Name
	carrier.ProductID = v.ProductID
	carrier.UpdatedAt = time.Now()
	return h.carriers.Update(ctx, carrier)
}
