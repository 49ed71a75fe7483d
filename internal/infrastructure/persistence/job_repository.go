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

// Ensure GormJobStore implements connector.JobStore
var _ connector.JobStore = (*GormJobStore)(nil)

// GormJobStore implements JobStore using GORM
type GormJobStore struct {
	db *gorm.DB
}

// NewGormJobStore creates a new GormJobStore
func NewGormJobStore(db *gorm.DB) *GormJobStore {
	return &GormJobStore{db: db}
}

// Save creates or updates a job
func (s *GormJobStore) Save(ctx context.Context, job *connector.Job) error {
	model := models.JobModelFromDomain(job)
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// ClaimDue atomically claims up to limit due pending jobs. Row locking with
// SKIP LOCKED lets multiple workers poll the same table without handing out
// the same job twice.
func (s *GormJobStore) ClaimDue(ctx context.Context, now time.Time, limit int) ([]connector.Job, error) {
	var claimed []connector.Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jobModels []models.JobModel
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("state = ? AND run_at <= ?", connector.JobStatePending, now).
			Order("priority ASC, created_at ASC").
			Limit(limit).
			Find(&jobModels).Error; err != nil {
			return err
		}
		if len(jobModels) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(jobModels))
		for i, model := range jobModels {
			ids[i] = model.ID
		}
		if err := tx.Model(&models.JobModel{}).
			Where("id IN ?", ids).
			Updates(map[string]any{
				"state":      connector.JobStateRunning,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		claimed = make([]connector.Job, len(jobModels))
		for i, model := range jobModels {
			job := model.ToDomain()
			job.State = connector.JobStateRunning
			claimed[i] = *job
		}
		return nil
	})
	return claimed, err
}

// FindByID finds a job by its ID
func (s *GormJobStore) FindByID(ctx context.Context, id uuid.UUID) (*connector.Job, error) {
	var model models.JobModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByState lists jobs in a state, newest first
func (s *GormJobStore) FindByState(ctx context.Context, state connector.JobState, limit, offset int) ([]connector.Job, error) {
	var jobModels []models.JobModel
	if err := s.db.WithContext(ctx).
		Where("state = ?", state).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]connector.Job, len(jobModels))
	for i, model := range jobModels {
		jobs[i] = *model.ToDomain()
	}
	return jobs, nil
}
