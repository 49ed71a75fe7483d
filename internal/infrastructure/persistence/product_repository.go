package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormProductRepository implements commerce.ProductStore
var _ commerce.ProductStore = (*GormProductRepository)(nil)

// GormProductRepository implements ProductStore using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product carrying the given SKU. When several products
// share the SKU the oldest one wins.
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*commerce.Product, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new product
func (r *GormProductRepository) Create(ctx context.Context, product *commerce.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update overwrites an existing product
func (r *GormProductRepository) Update(ctx context.Context, product *commerce.Product) error {
	var model models.ProductModel
	model.FromDomain(product)
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commerce.ErrProductNotFound
	}
	return nil
}
