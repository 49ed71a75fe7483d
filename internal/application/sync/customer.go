package sync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure CustomerHandler implements RecordHandler
var _ RecordHandler = (*CustomerHandler)(nil)

// partnerValues are the mapped local values of a customer address block.
type partnerValues struct {
	Name        string
	Email       string
	Phone       string
	Street      string
	Street2     string
	City        string
	Zip         string
	CountryCode string
	StateCode   string
	IsCompany   bool
}

// CustomerHandler imports customers as partners. The billing address maps to
// the primary partner; a distinct shipping address becomes a delivery child
// partner bound under the synthetic "<id>_shipping" external id.
type CustomerHandler struct {
	BaseHandler
	partners commerce.PartnerStore
	logger   *zap.Logger
}

// NewCustomerHandler creates the customer record handler.
func NewCustomerHandler(partners commerce.PartnerStore, logger *zap.Logger) *CustomerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerHandler{partners: partners, logger: logger}
}

// Kind reports the customer entity kind.
func (h *CustomerHandler) Kind() connector.EntityKind { return connector.EntityKindCustomer }

// Map translates the billing address block into primary partner values.
func (h *CustomerHandler) Map(ctx context.Context, mc *MapContext, p connector.Payload) (any, error) {
	values := mapPartnerBlock(p, "billing")
	if values.Name == "" {
		return nil, connector.NewMappingError(h.Kind(), p.ID("id"), "customer has no usable name")
	}
	return values, nil
}

// Create persists a new primary partner.
func (h *CustomerHandler) Create(ctx context.Context, mc *MapContext, p connector.Payload, values any) (uuid.UUID, error) {
	v := values.(partnerValues)
	partner, err := commerce.NewPartner(v.Name)
	if err != nil {
		return uuid.Nil, err
	}
	applyPartnerValues(partner, v)
	if err := h.partners.Create(ctx, partner); err != nil {
		return uuid.Nil, err
	}
	return partner.ID, nil
}

// Update applies the mapped values to the bound primary partner. Type and
// parent are never touched on update.
func (h *CustomerHandler) Update(ctx context.Context, mc *MapContext, internalID uuid.UUID, values any) error {
	v := values.(partnerValues)
	partner, err := h.partners.FindByID(ctx, internalID)
	if err != nil {
		return fmt.Errorf("load partner %s: %w", internalID, err)
	}
	applyPartnerValues(partner, v)
	return h.partners.Update(ctx, partner)
}

// AfterImport stores the customer's VAT number when the backend maps one,
// then maintains the shipping address twin.
func (h *CustomerHandler) AfterImport(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error {
	if err := h.applyVAT(ctx, mc, p, binding); err != nil {
		return err
	}
	return h.syncShippingTwin(ctx, mc, p, binding)
}

func (h *CustomerHandler) applyVAT(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error {
	field := mc.Backend.PartnerVATField
	if field == "" {
		return nil
	}
	vat := metaValue(p, field)
	if vat == "" {
		return nil
	}
	partner, err := h.partners.FindByID(ctx, binding.InternalID)
	if err != nil {
		return fmt.Errorf("load partner %s: %w", binding.InternalID, err)
	}
	partner.VATNumber = sanitizeVAT(vat)
	return h.partners.Update(ctx, partner)
}

// syncShippingTwin creates or refreshes the delivery child partner for the
// customer's shipping address. A twin is only created once the shipping
// street is filled in; an existing twin keeps following later edits.
func (h *CustomerHandler) syncShippingTwin(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error {
	shippingID := connector.ShippingExternalID(binding.ExternalID)
	twinID, bound, err := mc.InternalIfBound(ctx, connector.EntityKindCustomer, shippingID)
	if err != nil {
		return err
	}

	values := mapPartnerBlock(p, "shipping")
	if values.Street == "" && !bound {
		return nil
	}
	if values.Name == "" {
		values.Name = "Shipping address"
	}

	if bound {
		twin, err := h.partners.FindByID(ctx, twinID)
		if err != nil {
			return fmt.Errorf("load shipping partner %s: %w", twinID, err)
		}
		applyPartnerValues(twin, values)
		return h.partners.Update(ctx, twin)
	}

	twin, err := commerce.NewPartner(values.Name)
	if err != nil {
		return err
	}
	applyPartnerValues(twin, values)
	twin.Type = commerce.PartnerTypeDelivery
	parentID := binding.InternalID
	twin.ParentID = &parentID
	if err := h.partners.Create(ctx, twin); err != nil {
		return err
	}
	_, err = mc.Binder.Bind(ctx, mc.Backend.ID, connector.EntityKindCustomer, shippingID, twin.ID)
	return err
}

// mapPartnerBlock maps one address block ("billing" or "shipping") of a
// customer payload. A company name takes precedence over the person name;
// the top-level customer name and username serve as fallbacks.
func mapPartnerBlock(p connector.Payload, block string) partnerValues {
	addr := p.Map(block)
	if addr == nil {
		addr = connector.Payload{}
	}

	values := partnerValues{
		Email:       addr.String("email"),
		Phone:       addr.String("phone"),
		Street:      addr.String("address_1"),
		Street2:     addr.String("address_2"),
		City:        addr.String("city"),
		Zip:         addr.String("postcode"),
		CountryCode: addr.String("country"),
		StateCode:   addr.String("state"),
	}
	if values.Email == "" {
		values.Email = p.String("email")
	}

	if company := addr.String("company"); company != "" {
		values.Name = company
		values.IsCompany = true
		return values
	}

	name := joinName(addr.String("first_name"), addr.String("last_name"))
	if name == "" {
		name = joinName(p.String("first_name"), p.String("last_name"))
	}
	if name == "" {
		name = p.String("username")
	}
	values.Name = name
	return values
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// metaValue extracts a value from the payload's meta_data list by key.
func metaValue(p connector.Payload, key string) string {
	for _, meta := range p.List("meta_data") {
		if meta.String("key") == key {
			return meta.String("value")
		}
	}
	return ""
}

// sanitizeVAT strips the separators merchants commonly type into VAT fields.
func sanitizeVAT(vat string) string {
	replacer := strings.NewReplacer(".", "", " ", "", "-", "")
	return strings.ToUpper(replacer.Replace(vat))
}

func applyPartnerValues(partner *commerce.Partner, v partnerValues) {
	partner.Name = v.Name
	partner.Email = v.Email
	partner.Phone = v.Phone
	partner.Street = v.Street
	partner.Street2 = v.Street2
	partner.City = v.City
	partner.Zip = v.Zip
	partner.CountryCode = v.CountryCode
	partner.StateCode = v.StateCode
	partner.IsCompany = v.IsCompany
	partner.UpdatedAt = time.Now()
}
