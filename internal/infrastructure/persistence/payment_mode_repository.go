package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormPaymentModeRepository implements commerce.PaymentModeStore
var _ commerce.PaymentModeStore = (*GormPaymentModeRepository)(nil)

// GormPaymentModeRepository implements PaymentModeStore using GORM
type GormPaymentModeRepository struct {
	db *gorm.DB
}

// NewGormPaymentModeRepository creates a new GormPaymentModeRepository
func NewGormPaymentModeRepository(db *gorm.DB) *GormPaymentModeRepository {
	return &GormPaymentModeRepository{db: db}
}

// FindByCode finds the payment mode carrying the given platform code
func (r *GormPaymentModeRepository) FindByCode(ctx context.Context, code string) (*commerce.PaymentMode, error) {
	var model models.PaymentModeModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrPaymentModeNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
