package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormBindingRepository implements connector.BindingRepository
var _ connector.BindingRepository = (*GormBindingRepository)(nil)

// GormBindingRepository implements BindingRepository using GORM
type GormBindingRepository struct {
	db *gorm.DB
}

// NewGormBindingRepository creates a new GormBindingRepository
func NewGormBindingRepository(db *gorm.DB) *GormBindingRepository {
	return &GormBindingRepository{db: db}
}

// FindByExternal returns all bindings matching the external id. The unique
// index keeps this at zero or one row in a healthy table; the binder treats
// more as corruption.
func (r *GormBindingRepository) FindByExternal(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string) ([]connector.Binding, error) {
	var bindingModels []models.BindingModel
	if err := r.db.WithContext(ctx).
		Where("backend_id = ? AND entity_kind = ? AND external_id = ?", backendID, kind, externalID).
		Find(&bindingModels).Error; err != nil {
		return nil, err
	}

	bindings := make([]connector.Binding, len(bindingModels))
	for i, model := range bindingModels {
		bindings[i] = *model.ToDomain()
	}
	return bindings, nil
}

// FindPrimaryByInternal returns the primary binding of a local entity,
// skipping the synthetic shipping twins. Platform ids with underscores of
// their own, like the "flat_rate" carrier, stay primary.
func (r *GormBindingRepository) FindPrimaryByInternal(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, internalID uuid.UUID) (*connector.Binding, error) {
	var model models.BindingModel
	if err := r.db.WithContext(ctx).
		Where("backend_id = ? AND entity_kind = ? AND internal_id = ? AND external_id NOT LIKE ?",
			backendID, kind, internalID, "%\\"+connector.ShippingSuffix).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert atomically creates or updates the binding keyed by
// (backend, kind, external id). Concurrent imports of the same record
// converge on one row through the unique index.
func (r *GormBindingRepository) Upsert(ctx context.Context, binding *connector.Binding) error {
	model := models.BindingModelFromDomain(binding)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "backend_id"},
				{Name: "entity_kind"},
				{Name: "external_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"internal_id", "last_synced_at", "updated_at"}),
		}).
		Create(model).Error
}

// Delete removes a binding row.
func (r *GormBindingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.BindingModel{}, "id = ?", id).Error
}

// FindByBackend lists bindings of a backend for the admin surface. An empty
// kind lists every kind.
func (r *GormBindingRepository) FindByBackend(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, limit, offset int) ([]connector.Binding, error) {
	query := r.db.WithContext(ctx).Where("backend_id = ?", backendID)
	if kind != "" {
		query = query.Where("entity_kind = ?", kind)
	}

	var bindingModels []models.BindingModel
	if err := query.
		Order("entity_kind ASC, external_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&bindingModels).Error; err != nil {
		return nil, err
	}

	bindings := make([]connector.Binding, len(bindingModels))
	for i, model := range bindingModels {
		bindings[i] = *model.ToDomain()
	}
	return bindings, nil
}
