package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormCategoryRepository implements commerce.CategoryStore
var _ commerce.CategoryStore = (*GormCategoryRepository)(nil)

// GormCategoryRepository implements CategoryStore using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrCategoryNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *commerce.Category) error {
	var model models.CategoryModel
	model.FromDomain(category)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update overwrites an existing category
func (r *GormCategoryRepository) Update(ctx context.Context, category *commerce.Category) error {
	var model models.CategoryModel
	model.FromDomain(category)
	result := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("id = ?", category.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commerce.ErrCategoryNotFound
	}
	return nil
}
