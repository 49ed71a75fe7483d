package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// ---------------------------------------------------------------------------
// Inventory exporter
// ---------------------------------------------------------------------------

// stockFields are the local product fields whose change triggers an
// inventory push. Changes to any other field are ignored by the exporter.
var stockFields = map[string]struct{}{
	"qty_available":         {},
	"qty_available_not_res": {},
	"manage_stock":          {},
}

// InventoryExporter pushes local stock levels of a bound product back to the
// platform. It is the only outbound writer: everything else flows inward.
// Exports never create remote records; an unbound product is an error.
type InventoryExporter struct {
	clients  connector.ClientFactory
	binder   connector.Binder
	products commerce.ProductStore
	logger   *zap.Logger
}

// NewInventoryExporter creates an inventory exporter.
func NewInventoryExporter(clients connector.ClientFactory, binder connector.Binder, products commerce.ProductStore, logger *zap.Logger) *InventoryExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryExporter{clients: clients, binder: binder, products: products, logger: logger}
}

// Run pushes the stock level of one product to the backend. changedFields
// names the fields whose change triggered the export; when none of them is
// stock-relevant the export is a no-op. An empty list forces the push.
func (e *InventoryExporter) Run(ctx context.Context, backend *connector.Backend, productID uuid.UUID, changedFields []string) error {
	if len(changedFields) > 0 && !touchesStock(changedFields) {
		return nil
	}

	externalID, err := e.binder.ToExternal(ctx, backend.ID, connector.EntityKindProduct, productID)
	if err != nil {
		if errors.Is(err, connector.ErrBindingNotFound) {
			return fmt.Errorf("%w: product %s on backend %s", connector.ErrUnboundEntity, productID, backend.Name)
		}
		return err
	}

	product, err := e.products.FindByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", productID, err)
	}

	data := quantityValues(backend, product)

	client, err := e.clients.ClientFor(backend)
	if err != nil {
		return err
	}
	if err := client.Update(ctx, connector.EntityKindProduct, externalID, data); err != nil {
		return fmt.Errorf("export inventory for product %s: %w", externalID, err)
	}

	e.logger.Info("inventory exported",
		zap.String("backend", backend.Name),
		zap.String("external_id", externalID),
	)
	return nil
}

// quantityValues projects local stock onto the platform's inventory fields.
// Products with managed stock get an integer quantity; others get a simple
// in-stock flag.
func quantityValues(backend *connector.Backend, product *commerce.Product) connector.Payload {
	qty := product.QtyAvailable
	if backend.ProductQtyField == connector.QtyFieldAvailableNotReserved {
		qty = product.QtyAvailableNotReserved
	}
	if product.ManageStock {
		return connector.Payload{
			"manage_stock":   true,
			"stock_quantity": int(qty.IntPart()),
		}
	}
	return connector.Payload{
		"manage_stock": false,
		"in_stock":     qty.IsPositive(),
	}
}

func touchesStock(fields []string) bool {
	for _, f := range fields {
		if _, ok := stockFields[f]; ok {
			return true
		}
	}
	return false
}
