package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrCategoryNotFound indicates the category does not exist.
	ErrCategoryNotFound = errors.New("commerce: category not found")
	// ErrProductNotFound indicates the product does not exist.
	ErrProductNotFound = errors.New("commerce: product not found")
)

// Category is a product category.
type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	ParentID  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductType distinguishes stockable goods from services.
type ProductType string

const (
	// ProductTypeStockable is a physical product tracked in inventory.
	ProductTypeStockable ProductType = "product"
	// ProductTypeService is a non-stockable product (shipping, fees).
	ProductTypeService ProductType = "service"
)

// Product is a catalog item. Stock quantities are projections maintained by
// the inventory side of the system; the exporter only reads them.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	SKU         string
	Type        ProductType
	Price       decimal.Decimal
	Weight      decimal.Decimal
	ManageStock bool
	Active      bool
	CategoryID  *uuid.UUID
	// ImageKey is the object-storage key of the imported product image.
	ImageKey string
	// QtyAvailable is the on-hand quantity.
	QtyAvailable decimal.Decimal
	// QtyAvailableNotReserved is the on-hand quantity minus reservations.
	QtyAvailableNotReserved decimal.Decimal
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// CategoryStore persists categories.
type CategoryStore interface {
	// FindByID returns a category or ErrCategoryNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Create persists a new category.
	Create(ctx context.Context, category *Category) error

	// Update overwrites an existing category.
	Update(ctx context.Context, category *Category) error
}

// ProductStore persists products.
type ProductStore interface {
	// FindByID returns a product or ErrProductNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU returns a product by its SKU, or ErrProductNotFound. Used to
	// match imported products against the existing catalog.
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *Product) error

	// Update overwrites an existing product.
	Update(ctx context.Context, product *Product) error
}
