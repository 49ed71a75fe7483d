package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// ImageStorage stores downloaded product images in object storage.
type ImageStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
}

// Ensure ProductHandler implements RecordHandler
var _ RecordHandler = (*ProductHandler)(nil)

// productValues are the mapped local values of a remote product.
type productValues struct {
	Name        string
	Description string
	SKU         string
	Type        commerce.ProductType
	Price       decimal.Decimal
	Weight      decimal.Decimal
	ManageStock bool
	Active      bool
	CategoryID  *uuid.UUID
}

// ProductHandler imports products. Categories referenced by the record are
// imported first; the product image is fetched after import on a best-effort
// basis.
type ProductHandler struct {
	BaseHandler
	products commerce.ProductStore
	images   ImageStorage
	logger   *zap.Logger
}

// NewProductHandler creates the product record handler. The image storage
// may be nil, which disables image import.
func NewProductHandler(products commerce.ProductStore, images ImageStorage, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{products: products, images: images, logger: logger}
}

// Kind reports the product entity kind.
func (h *ProductHandler) Kind() connector.EntityKind { return connector.EntityKindProduct }

// Dependencies lists the categories the product belongs to.
func (h *ProductHandler) Dependencies(p connector.Payload) []Dependency {
	var deps []Dependency
	for _, cat := range p.List("categories") {
		if id := cat.ID("id"); id != "" {
			deps = append(deps, Dependency{Kind: connector.EntityKindCategory, ExternalID: id})
		}
	}
	return deps
}

// Map translates the payload into product values. The first category of the
// record becomes the local category.
func (h *ProductHandler) Map(ctx context.Context, mc *MapContext, p connector.Payload) (any, error) {
	values := productValues{
		Name:        p.String("name"),
		Description: p.String("description"),
		SKU:         p.String("sku"),
		Type:        commerce.ProductTypeStockable,
		Price:       p.Decimal("price"),
		Weight:      p.Decimal("weight"),
		ManageStock: p.Bool("manage_stock"),
		Active:      p.String("catalog_visibility") == "visible",
	}
	if values.Name == "" {
		return nil, connector.NewMappingError(h.Kind(), p.ID("id"), "product has no name")
	}
	if p.Bool("virtual") {
		values.Type = commerce.ProductTypeService
	}

	for _, cat := range p.List("categories") {
		id := cat.ID("id")
		if id == "" {
			continue
		}
		categoryID, err := mc.Internal(ctx, connector.EntityKindCategory, id)
		if err != nil {
			return nil, err
		}
		values.CategoryID = &categoryID
		break
	}
	return values, nil
}

// Create persists a new local product. When the backend has product matching
// enabled and an existing product carries the same SKU, the import binds to
// that product instead of creating a duplicate.
func (h *ProductHandler) Create(ctx context.Context, mc *MapContext, p connector.Payload, values any) (uuid.UUID, error) {
	v := values.(productValues)

	if mc.Backend.MatchingProduct && v.SKU != "" {
		existing, err := h.products.FindBySKU(ctx, v.SKU)
		if err != nil && !errors.Is(err, commerce.ErrProductNotFound) {
			return uuid.Nil, fmt.Errorf("match product by sku %q: %w", v.SKU, err)
		}
		if existing != nil {
			applyProductValues(existing, v)
			if err := h.products.Update(ctx, existing); err != nil {
				return uuid.Nil, err
			}
			return existing.ID, nil
		}
	}

	now := time.Now()
	product := &commerce.Product{
		ID:        uuid.New(),
		CreatedAt: now,
	}
	applyProductValues(product, v)
	if err := h.products.Create(ctx, product); err != nil {
		return uuid.Nil, err
	}
	return product.ID, nil
}

// Update applies the mapped values to the bound local product.
func (h *ProductHandler) Update(ctx context.Context, mc *MapContext, internalID uuid.UUID, values any) error {
	v := values.(productValues)
	product, err := h.products.FindByID(ctx, internalID)
	if err != nil {
		return fmt.Errorf("load product %s: %w", internalID, err)
	}
	applyProductValues(product, v)
	return h.products.Update(ctx, product)
}

// AfterImport downloads the product image. Image failures never fail the
// import; the record is complete without its picture.
func (h *ProductHandler) AfterImport(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error {
	if h.images == nil {
		return nil
	}
	if err := h.importImage(ctx, mc, p, binding); err != nil {
		h.logger.Warn("product image import failed",
			zap.String("external_id", binding.ExternalID),
			zap.Error(err),
		)
	}
	return nil
}

// importImage tries the record's image candidates from the last entry
// backwards until one downloads. Candidates reported gone by the platform
// are skipped.
func (h *ProductHandler) importImage(ctx context.Context, mc *MapContext, p connector.Payload, binding *connector.Binding) error {
	images := p.List("images")
	for i := len(images) - 1; i >= 0; i-- {
		src := images[i].String("src")
		if src == "" {
			continue
		}
		data, err := mc.Client.FetchBinary(ctx, src)
		if err != nil {
			return fmt.Errorf("fetch image %s: %w", src, err)
		}
		if data == nil {
			continue
		}
		return h.storeImage(ctx, binding.InternalID, src, data)
	}
	return nil
}

func (h *ProductHandler) storeImage(ctx context.Context, productID uuid.UUID, src string, data []byte) error {
	key := imageStorageKey(productID, src)
	if err := h.images.Upload(ctx, key, data, http.DetectContentType(data)); err != nil {
		return fmt.Errorf("store image %s: %w", key, err)
	}

	product, err := h.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	product.ImageKey = key
	return h.products.Update(ctx, product)
}

func imageStorageKey(productID uuid.UUID, src string) string {
	name := "image"
	if u, err := url.Parse(src); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			name = base
		}
	}
	return fmt.Sprintf("products/%s/%s", productID, name)
}

func applyProductValues(product *commerce.Product, v productValues) {
	product.Name = v.Name
	product.Description = v.Description
	product.SKU = v.SKU
	product.Type = v.Type
	product.Price = v.Price
	product.Weight = v.Weight
	product.ManageStock = v.ManageStock
	product.Active = v.Active
	product.CategoryID = v.CategoryID
	product.UpdatedAt = time.Now()
}
