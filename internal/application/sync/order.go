package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure OrderHandler implements RecordHandler
var _ RecordHandler = (*OrderHandler)(nil)

// orderValues are the mapped header values of a remote sale order. A nil
// PartnerID marks a guest order whose partner is created during Create.
type orderValues struct {
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
}

// OrderHandler imports sale orders. The referenced customer and every line
// product are imported first, always, so the order maps against fresh data.
// Lines are materialized after the header is persisted and bound: product
// lines from the flattened line items, then one shipping line and one line
// per fee, carried by the backend's configured service products.
type OrderHandler struct {
	BaseHandler
	orders   commerce.OrderStore
	partners commerce.PartnerStore
	modes    commerce.PaymentModeStore
	logger   *zap.Logger
}

// NewOrderHandler creates the sale order record handler.
func NewOrderHandler(orders commerce.OrderStore, partners commerce.PartnerStore, modes commerce.PaymentModeStore, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{orders: orders, partners: partners, modes: modes, logger: logger}
}

// Kind reports the order entity kind.
func (h *OrderHandler) Kind() connector.EntityKind { return connector.EntityKindOrder }

// WriteOnce freezes a sale order after its first import. Orders move through
// the local fulfilment workflow once created, so a later remote edit must not
// rewrite them.
func (h *OrderHandler) WriteOnce() bool { return true }

// Normalize flattens the line items: bundle children reference their parent
// line through parent_item_id and would double-count amounts, so only
// top-level lines survive.
func (h *OrderHandler) Normalize(p connector.Payload) connector.Payload {
	raw, ok := p["line_items"].([]any)
	if !ok {
		return p
	}
	top := make([]any, 0, len(raw))
	for _, el := range raw {
		line, ok := el.(map[string]any)
		if !ok {
			continue
		}
		if parent := connector.Payload(line).ID("parent_item_id"); parent != "" && parent != "0" {
			continue
		}
		top = append(top, el)
	}
	p["line_items"] = top
	return p
}

// Dependencies lists the customer and every line product, all refreshed even
// when already bound.
func (h *OrderHandler) Dependencies(p connector.Payload) []Dependency {
	var deps []Dependency
	if customer := p.ID("customer_id"); customer != "" && customer != "0" {
		deps = append(deps, Dependency{Kind: connector.EntityKindCustomer, ExternalID: customer, Always: true})
	}
	for _, line := range p.List("line_items") {
		if product := line.ID("product_id"); product != "" && product != "0" {
			deps = append(deps, Dependency{Kind: connector.EntityKindProduct, ExternalID: product, Always: true})
		}
	}
	return deps
}

// Map translates the payload into order header values.
func (h *OrderHandler) Map(ctx context.Context, mc *MapContext, p connector.Payload) (any, error) {
	values := orderValues{
		Number:        p.String("number"),
		Note:          p.String("customer_note"),
		Status:        p.String("status"),
		TotalAmount:   p.Decimal("total"),
		TotalTax:      p.Decimal("total_tax"),
		ShippingTotal: p.Decimal("shipping_total"),
	}
	if values.Number == "" {
		values.Number = p.ID("id")
	}

	if customer := p.ID("customer_id"); customer != "" && customer != "0" {
		partnerID, err := mc.Internal(ctx, connector.EntityKindCustomer, customer)
		if err != nil {
			return nil, err
		}
		values.PartnerID = partnerID

		shippingID, bound, err := mc.InternalIfBound(ctx, connector.EntityKindCustomer, connector.ShippingExternalID(customer))
		if err != nil {
			return nil, err
		}
		if bound {
			values.ShippingPartnerID = &shippingID
		}
	}

	mode, err := h.modes.FindByCode(ctx, p.String("payment_method"))
	if err != nil {
		if errors.Is(err, commerce.ErrPaymentModeNotFound) {
			return nil, connector.NewConfigurationError(
				"payment method %q is not configured: create a payment mode with code %q and run the import again",
				p.String("payment_method_title"), p.String("payment_method"))
		}
		return nil, err
	}
	values.PaymentModeID = mode.ID

	for _, shipping := range p.List("shipping_lines") {
		method := shipping.ID("method_id")
		if method == "" {
			continue
		}
		carrierID, bound, err := mc.InternalIfBound(ctx, connector.EntityKindCarrier, method)
		if err != nil {
			return nil, err
		}
		if bound {
			values.CarrierID = &carrierID
		}
		break
	}
	return values, nil
}

// Create persists the order header. For guest orders the partner does not
// exist as a customer record, so one is created from the order's own billing
// and shipping blocks first.
func (h *OrderHandler) Create(ctx context.Context, mc *MapContext, p connector.Payload, values any) (uuid.UUID, error) {
	v := values.(orderValues)

	if v.PartnerID == uuid.Nil {
		partnerID, shippingPartnerID, err := h.createGuestPartners(ctx, p)
		if err != nil {
			return uuid.Nil, err
		}
		v.PartnerID = partnerID
		v.ShippingPartnerID = shippingPartnerID
	}

	now := time.Now()
	order := &commerce.SaleOrder{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	applyOrderValues(order, v)
	if err := h.orders.Create(ctx, order); err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

// Update applies the mapped values to the bound order header.
func (h *OrderHandler) Update(ctx context.Context, mc *MapContext, internalID uuid.UUID, values any) error {
	v := values.(orderValues)
	order, err := h.orders.FindByID(ctx, internalID)
	if err != nil {
		return fmt.Errorf("load order %s: %w", internalID, err)
	}
	if v.PartnerID == uuid.Nil {
		// Guest partner was created on first import; keep it.
		v.PartnerID = order.PartnerID
		v.ShippingPartnerID = order.ShippingPartnerID
	}
	applyOrderValues(order, v)
	return h.orders.Update(ctx, order)
}

// AfterImport materializes the order lines. Runs after the header is bound
// and replaces any existing lines, so a forced re-import converges instead
// of duplicating.
func (h *OrderHandler) AfterImport(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error {
	lines, err := h.buildLines(ctx, mc, p, binding.InternalID)
	if err != nil {
		return err
	}
	return h.orders.ReplaceLines(ctx, binding.InternalID, lines)
}

func (h *OrderHandler) buildLines(ctx context.Context, mc *MapContext, p connector.Payload, orderID uuid.UUID) ([]commerce.SaleOrderLine, error) {
	var lines []commerce.SaleOrderLine
	seq := 0
	next := func() int { seq++; return seq }

	for _, item := range p.List("line_items") {
		external := item.ID("product_id")
		if external == "" || external == "0" {
			return nil, connector.NewMappingError(h.Kind(), p.ID("id"),
				fmt.Sprintf("line %q references no product", item.String("name")))
		}
		productID, err := mc.Internal(ctx, connector.EntityKindProduct, external)
		if err != nil {
			return nil, err
		}
		id := productID
		lines = append(lines, commerce.SaleOrderLine{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: &id,
			Name:      item.String("name"),
			Kind:      commerce.OrderLineKindProduct,
			Quantity:  item.Decimal("quantity"),
			PriceUnit: item.Decimal("price"),
			Sequence:  next(),
			CreatedAt: time.Now(),
		})
	}

	shippingLines, err := h.buildShippingLines(mc, p, orderID, next)
	if err != nil {
		return nil, err
	}
	lines = append(lines, shippingLines...)

	feeLines, err := h.buildFeeLines(mc, p, orderID, next)
	if err != nil {
		return nil, err
	}
	return append(lines, feeLines...), nil
}

// buildShippingLines adds one line carrying the order's shipping charge on
// the backend's shipping service product. Free shipping produces no line.
func (h *OrderHandler) buildShippingLines(mc *MapContext, p connector.Payload, orderID uuid.UUID, next func() int) ([]commerce.SaleOrderLine, error) {
	total := p.Decimal("shipping_total")
	if !total.IsPositive() {
		return nil, nil
	}
	if mc.Backend.ShippingProductID == uuid.Nil {
		return nil, connector.NewConfigurationError(
			"order %s carries a shipping charge but backend %q has no shipping product configured",
			p.ID("id"), mc.Backend.Name)
	}

	name := "Shipping"
	for _, shipping := range p.List("shipping_lines") {
		if title := shipping.String("method_title"); title != "" {
			name = title
			break
		}
	}

	productID := mc.Backend.ShippingProductID
	return []commerce.SaleOrderLine{{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: &productID,
		Name:      name,
		Kind:      commerce.OrderLineKindShipping,
		Quantity:  decimal.NewFromInt(1),
		PriceUnit: total,
		Sequence:  next(),
		CreatedAt: time.Now(),
	}}, nil
}

// buildFeeLines adds one line per remote fee on the backend's fee service
// product.
func (h *OrderHandler) buildFeeLines(mc *MapContext, p connector.Payload, orderID uuid.UUID, next func() int) ([]commerce.SaleOrderLine, error) {
	fees := p.List("fee_lines")
	if len(fees) == 0 {
		return nil, nil
	}
	if mc.Backend.FeeProductID == uuid.Nil {
		return nil, connector.NewConfigurationError(
			"order %s carries fees but backend %q has no fee product configured",
			p.ID("id"), mc.Backend.Name)
	}

	lines := make([]commerce.SaleOrderLine, 0, len(fees))
	for _, fee := range fees {
		name := fee.String("name")
		if name == "" {
			name = "Fee"
		}
		productID := mc.Backend.FeeProductID
		lines = append(lines, commerce.SaleOrderLine{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: &productID,
			Name:      name,
			Kind:      commerce.OrderLineKindFee,
			Quantity:  decimal.NewFromInt(1),
			PriceUnit: fee.Decimal("total"),
			Sequence:  next(),
			CreatedAt: time.Now(),
		})
	}
	return lines, nil
}

// createGuestPartners creates the billing partner of a guest order and, when
// the order ships to a filled-in address, a delivery child partner.
func (h *OrderHandler) createGuestPartners(ctx context.Context, p connector.Payload) (uuid.UUID, *uuid.UUID, error) {
	billing := mapPartnerBlock(p, "billing")
	if billing.Name == "" {
		return uuid.Nil, nil, connector.NewMappingError(h.Kind(), p.ID("id"), "guest order has no billing name")
	}
	partner, err := commerce.NewPartner(billing.Name)
	if err != nil {
		return uuid.Nil, nil, err
	}
	applyPartnerValues(partner, billing)
	if err := h.partners.Create(ctx, partner); err != nil {
		return uuid.Nil, nil, err
	}

	shipping := mapPartnerBlock(p, "shipping")
	if shipping.Street == "" {
		return partner.ID, nil, nil
	}
	if shipping.Name == "" {
		shipping.Name = billing.Name
	}
	child, err := commerce.NewPartner(shipping.Name)
	if err != nil {
		return uuid.Nil, nil, err
	}
	applyPartnerValues(child, shipping)
	child.Type = commerce.PartnerTypeDelivery
	parentID := partner.ID
	child.ParentID = &parentID
	if err := h.partners.Create(ctx, child); err != nil {
		return uuid.Nil, nil, err
	}
	return partner.ID, &child.ID, nil
}

func applyOrderValues(order *commerce.SaleOrder, v orderValues) {
	order.Number = v.Number
	order.Note = v.Note
	order.Status = v.Status
	order.PartnerID = v.PartnerID
	order.ShippingPartnerID = v.ShippingPartnerID
	order.PaymentModeID = v.PaymentModeID
	order.CarrierID = v.CarrierID
	order.TotalAmount = v.TotalAmount
	order.TotalTax = v.TotalTax
	order.ShippingTotal = v.ShippingTotal
	order.UpdatedAt = time.Now()
}
