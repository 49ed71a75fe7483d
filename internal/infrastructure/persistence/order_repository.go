package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormOrderRepository implements commerce.OrderStore
var _ commerce.OrderStore = (*GormOrderRepository)(nil)

// GormOrderRepository implements OrderStore using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds a sale order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.SaleOrder, error) {
	var model models.SaleOrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commerce.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create persists a new sale order without lines
func (r *GormOrderRepository) Create(ctx context.Context, order *commerce.SaleOrder) error {
	var model models.SaleOrderModel
	model.FromDomain(order)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update overwrites order header fields
func (r *GormOrderRepository) Update(ctx context.Context, order *commerce.SaleOrder) error {
	var model models.SaleOrderModel
	model.FromDomain(order)
	result := r.db.WithContext(ctx).Model(&models.SaleOrderModel{}).
		Where("id = ?", order.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commerce.ErrOrderNotFound
	}
	return nil
}

// AddLine appends a line to an order
func (r *GormOrderRepository) AddLine(ctx context.Context, line *commerce.SaleOrderLine) error {
	var model models.SaleOrderLineModel
	model.FromDomain(line)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Lines returns the lines of an order ordered by sequence
func (r *GormOrderRepository) Lines(ctx context.Context, orderID uuid.UUID) ([]commerce.SaleOrderLine, error) {
	var lineModels []models.SaleOrderLineModel
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("sequence ASC").
		Find(&lineModels).Error
	if err != nil {
		return nil, err
	}

	lines := make([]commerce.SaleOrderLine, len(lineModels))
	for i := range lineModels {
		lines[i] = lineModels[i].ToDomain()
	}
	return lines, nil
}

// ReplaceLines removes the existing lines of an order and inserts the given
// ones inside a single transaction, so a failed refresh never leaves the
// order half-lined.
func (r *GormOrderRepository) ReplaceLines(ctx context.Context, orderID uuid.UUID, lines []commerce.SaleOrderLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).
			Delete(&models.SaleOrderLineModel{}).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].OrderID = orderID
			var model models.SaleOrderLineModel
			model.FromDomain(&lines[i])
			if err := tx.Create(&model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
