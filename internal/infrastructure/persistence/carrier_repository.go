package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormCarrierRepository implements commerce.CarrierStore
var _ commerce.CarrierStore = (*GormCarrierRepository)(nil)

// GormCarrierRepository implements CarrierStore using GORM
type GormCarrierRepository struct {
	db *gorm.DB
}

// NewGormCarrierRepository creates a new GormCarrierRepository
func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// FindByID finds a delivery carrier by its ID
func (r *GormCarrierRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.DeliveryCarrier, error) {
	var model models.DeliveryCarrierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrCarrierNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new delivery carrier
func (r *GormCarrierRepository) Create(ctx context.Context, carrier *commerce.DeliveryCarrier) error {
	var model models.DeliveryCarrierModel
	model.FromDomain(carrier)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update overwrites an existing delivery carrier
func (r *GormCarrierRepository) Update(ctx context.Context, carrier *commerce.DeliveryCarrier) error {
	var model models.DeliveryCarrierModel
	model.FromDomain(carrier)
	result := r.db.WithContext(ctx).Model(&models.DeliveryCarrierModel{}).
		Where("id = ?", carrier.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commerce.ErrCarrierNotFound
	}
	return nil
}
