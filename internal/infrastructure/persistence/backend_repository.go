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

// Ensure GormBackendRepository implements connector.BackendRepository
var _ connector.BackendRepository = (*GormBackendRepository)(nil)

// GormBackendRepository implements BackendRepository using GORM
type GormBackendRepository struct {
	db *gorm.DB
}

// NewGormBackendRepository creates a new GormBackendRepository
func NewGormBackendRepository(db *gorm.DB) *GormBackendRepository {
	return &GormBackendRepository{db: db}
}

// FindByID finds a backend by its ID
func (r *GormBackendRepository) FindByID(ctx context.Context, id uuid.UUID) (*connector.Backend, error) {
	var model models.BackendModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connector.ErrBackendNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindEnabled returns all enabled backends
func (r *GormBackendRepository) FindEnabled(ctx context.Context) ([]connector.Backend, error) {
	var backendModels []models.BackendModel
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("name ASC").
		Find(&backendModels).Error; err != nil {
		return nil, err
	}

	backends := make([]connector.Backend, len(backendModels))
	for i, model := range backendModels {
		backends[i] = *model.ToDomain()
	}
	return backends, nil
}

// FindAll returns every configured backend
func (r *GormBackendRepository) FindAll(ctx context.Context) ([]connector.Backend, error) {
	var backendModels []models.BackendModel
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&backendModels).Error; err != nil {
		return nil, err
	}

	backends := make([]connector.Backend, len(backendModels))
	for i, model := range backendModels {
		backends[i] = *model.ToDomain()
	}
	return backends, nil
}

// Save creates or updates a backend
func (r *GormBackendRepository) Save(ctx context.Context, backend *connector.Backend) error {
	if err := backend.Validate(); err != nil {
		return err
	}
	model := models.BackendModelFromDomain(backend)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}
