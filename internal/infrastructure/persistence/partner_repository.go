package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormPartnerRepository implements commerce.PartnerStore
var _ commerce.PartnerStore = (*GormPartnerRepository)(nil)

// GormPartnerRepository implements PartnerStore using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrPartnerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new partner
func (r *GormPartnerRepository) Create(ctx context.Context, partner *commerce.Partner) error {
	model := models.PartnerModelFromDomain(partner)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update overwrites an existing partner
func (r *GormPartnerRepository) Update(ctx context.Context, partner *commerce.Partner) error {
	model := models.PartnerModelFromDomain(partner)
	result := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("id = ?", partner.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commerce.ErrPartnerNotFound
	}
	return nil
}
