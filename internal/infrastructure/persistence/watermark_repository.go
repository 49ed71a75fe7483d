package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/infrastructure/persistence/models"
)

// Ensure GormWatermarkStore implements connector.WatermarkStore
var _ connector.WatermarkStore = (*GormWatermarkStore)(nil)

// GormWatermarkStore implements WatermarkStore using GORM
type GormWatermarkStore struct {
	db *gorm.DB
}

// NewGormWatermarkStore creates a new GormWatermarkStore
func NewGormWatermarkStore(db *gorm.DB) *GormWatermarkStore {
	return &GormWatermarkStore{db: db}
}

// Get returns the stored watermark, or the zero time when the kind has never
// been polled.
func (s *GormWatermarkStore) Get(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind) (time.Time, error) {
	var model models.WatermarkModel
	if err := s.db.WithContext(ctx).
		Where("backend_id = ? AND entity_kind = ?", backendID, kind).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return model.Since, nil
}

// Advance stores the watermark for a backend and kind.
func (s *GormWatermarkStore) Advance(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, since time.Time) error {
	model := models.WatermarkModel{
		BackendID:  backendID,
		EntityKind: kind,
		Since:      since,
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "backend_id"},
				{Name: "entity_kind"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"since", "updated_at"}),
		}).
		Create(&model).Error
}
