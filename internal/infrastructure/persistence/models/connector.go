package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// BindingModel is the persistence model for the Binding domain entity. The
// unique index on (backend_id, entity_kind, external_id) backs the binder's
// idempotent upsert.
type BindingModel struct {
	ID           uuid.UUID            `gorm:"type:uuid;primary_key"`
	BackendID    uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_bindings_backend_kind_external,priority:1;index:idx_bindings_backend_internal,priority:1"`
	EntityKind   connector.EntityKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_bindings_backend_kind_external,priority:2;index:idx_bindings_backend_internal,priority:2"`
	ExternalID   string               `gorm:"type:varchar(100);not null;uniqueIndex:idx_bindings_backend_kind_external,priority:3"`
	InternalID   uuid.UUID            `gorm:"type:uuid;not null;index:idx_bindings_backend_internal,priority:3"`
	LastSyncedAt time.Time            `gorm:"not null"`
	CreatedAt    time.Time            `gorm:"not null"`
	UpdatedAt    time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BindingModel) TableName() string {
	return "bindings"
}

// ToDomain converts the persistence model to a domain Binding entity.
func (m *BindingModel) ToDomain() *connector.Binding {
	return &connector.Binding{
		ID:           m.ID,
		BackendID:    m.BackendID,
		EntityKind:   m.EntityKind,
		ExternalID:   m.ExternalID,
		InternalID:   m.InternalID,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Binding entity.
func (m *BindingModel) FromDomain(b *connector.Binding) {
	m.ID = b.ID
	m.BackendID = b.BackendID
	m.EntityKind = b.EntityKind
	m.ExternalID = b.ExternalID
	m.InternalID = b.InternalID
	m.LastSyncedAt = b.LastSyncedAt
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
}

// BindingModelFromDomain creates a new persistence model from a domain Binding entity.
func BindingModelFromDomain(b *connector.Binding) *BindingModel {
	m := &BindingModel{}
	m.FromDomain(b)
	return m
}

// BackendModel is the persistence model for the Backend domain entity.
type BackendModel struct {
	ID                      uuid.UUID           `gorm:"type:uuid;primary_key"`
	Name                    string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Location                string              `gorm:"type:varchar(255);not null"`
	ConsumerKey             string              `gorm:"type:varchar(255);not null"`
	ConsumerSecret          string              `gorm:"type:varchar(255);not null"`
	Version                 string              `gorm:"type:varchar(20);not null;default:'wc/v2'"`
	VerifySSL               bool                `gorm:"not null;default:true"`
	Enabled                 bool                `gorm:"not null;default:true;index"`
	ImportableOrderStatuses string              `gorm:"type:text"`
	MatchingProduct         bool                `gorm:"not null;default:false"`
	ProductQtyField         connector.QtyField  `gorm:"type:varchar(30);not null;default:'qty_available'"`
	ShippingProductID       *uuid.UUID          `gorm:"type:uuid"`
	FeeProductID            *uuid.UUID          `gorm:"type:uuid"`
	PartnerVATField         string              `gorm:"type:varchar(100)"`
	SyncIntervalSeconds     int                 `gorm:"not null;default:300"`
	CreatedAt               time.Time           `gorm:"not null"`
	UpdatedAt               time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BackendModel) TableName() string {
	return "backends"
}

// ToDomain converts the persistence model to a domain Backend entity.
func (m *BackendModel) ToDomain() *connector.Backend {
	backend := &connector.Backend{
		ID:              m.ID,
		Name:            m.Name,
		Location:        m.Location,
		ConsumerKey:     m.ConsumerKey,
		ConsumerSecret:  m.ConsumerSecret,
		Version:         m.Version,
		VerifySSL:       m.VerifySSL,
		Enabled:         m.Enabled,
		MatchingProduct: m.MatchingProduct,
		ProductQtyField: m.ProductQtyField,
		PartnerVATField: m.PartnerVATField,
		SyncInterval:    time.Duration(m.SyncIntervalSeconds) * time.Second,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.ImportableOrderStatuses != "" {
		backend.ImportableOrderStatuses = strings.Split(m.ImportableOrderStatuses, ",")
	}
	if m.ShippingProductID != nil {
		backend.ShippingProductID = *m.ShippingProductID
	}
	if m.FeeProductID != nil {
		backend.FeeProductID = *m.FeeProductID
	}
	return backend
}

// FromDomain populates the persistence model from a domain Backend entity.
func (m *BackendModel) FromDomain(b *connector.Backend) {
	m.ID = b.ID
	m.Name = b.Name
	m.Location = b.Location
	m.ConsumerKey = b.ConsumerKey
	m.ConsumerSecret = b.ConsumerSecret
	m.Version = b.Version
	m.VerifySSL = b.VerifySSL
	m.Enabled = b.Enabled
	m.ImportableOrderStatuses = strings.Join(b.ImportableOrderStatuses, ",")
	m.MatchingProduct = b.MatchingProduct
	m.ProductQtyField = b.ProductQtyField
	m.PartnerVATField = b.PartnerVATField
	m.SyncIntervalSeconds = int(b.SyncInterval / time.Second)
	m.CreatedAt = b.CreatedAt
	m.UpdatedAt = b.UpdatedAt
	m.ShippingProductID = nil
	if b.ShippingProductID != uuid.Nil {
		id := b.ShippingProductID
		m.ShippingProductID = &id
	}
	m.FeeProductID = nil
	if b.FeeProductID != uuid.Nil {
		id := b.FeeProductID
		m.FeeProductID = &id
	}
}

// BackendModelFromDomain creates a new persistence model from a domain Backend entity.
func BackendModelFromDomain(b *connector.Backend) *BackendModel {
	m := &BackendModel{}
	m.FromDomain(b)
	return m
}

// WatermarkModel is the persistence model for discovery watermarks.
type WatermarkModel struct {
	BackendID  uuid.UUID            `gorm:"type:uuid;primary_key"`
	EntityKind connector.EntityKind `gorm:"type:varchar(20);primary_key"`
	Since      time.Time            `gorm:"not null"`
	UpdatedAt  time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WatermarkModel) TableName() string {
	return "watermarks"
}

// JobModel is the persistence model for queued import jobs.
type JobModel struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key"`
	BackendID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	EntityKind connector.EntityKind `gorm:"type:varchar(20);not null"`
	ExternalID string               `gorm:"type:varchar(100);not null"`
	Force      bool                 `gorm:"not null;default:false"`
	Channel    string               `gorm:"type:varchar(50);not null;default:''"`
	Priority   int                  `gorm:"not null;default:10"`
	MaxRetries int                  `gorm:"not null;default:0"`
	Attempts   int                  `gorm:"not null;default:0"`
	State      connector.JobState   `gorm:"type:varchar(20);not null;default:'pending';index:idx_jobs_state_run_at,priority:1"`
	Note       string               `gorm:"type:text"`
	RunAt      time.Time            `gorm:"not null;index:idx_jobs_state_run_at,priority:2"`
	CreatedAt  time.Time            `gorm:"not null"`
	UpdatedAt  time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JobModel) TableName() string {
	return "import_jobs"
}

// ToDomain converts the persistence model to a domain Job entity.
func (m *JobModel) ToDomain() *connector.Job {
	return &connector.Job{
		ID:         m.ID,
		BackendID:  m.BackendID,
		EntityKind: m.EntityKind,
		ExternalID: m.ExternalID,
		Force:      m.Force,
		Channel:    m.Channel,
		Priority:   m.Priority,
		MaxRetries: m.MaxRetries,
		Attempts:   m.Attempts,
		State:      m.State,
		Note:       m.Note,
		RunAt:      m.RunAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Job entity.
func (m *JobModel) FromDomain(j *connector.Job) {
	m.ID = j.ID
	m.BackendID = j.BackendID
	m.EntityKind = j.EntityKind
	m.ExternalID = j.ExternalID
	m.Force = j.Force
	m.Channel = j.Channel
	m.Priority = j.Priority
	m.MaxRetries = j.MaxRetries
	m.Attempts = j.Attempts
	m.State = j.State
	m.Note = j.Note
	m.RunAt = j.RunAt
	m.CreatedAt = j.CreatedAt
	m.UpdatedAt = j.UpdatedAt
}

// JobModelFromDomain creates a new persistence model from a domain Job entity.
func JobModelFromDomain(j *connector.Job) *JobModel {
	m := &JobModel{}
	m.FromDomain(j)
	return m
}
