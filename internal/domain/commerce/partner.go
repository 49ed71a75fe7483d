package commerce

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPartnerNotFound indicates the partner does not exist.
	ErrPartnerNotFound = errors.New("commerce: partner not found")
	// ErrPartnerInvalidName indicates a partner without a usable name.
	ErrPartnerInvalidName = errors.New("commerce: partner name is required")
)

// PartnerType distinguishes primary contacts from their address children.
type PartnerType string

const (
	// PartnerTypeContact is a primary partner record.
	PartnerTypeContact PartnerType = "contact"
	// PartnerTypeDelivery is a shipping address child of a primary partner.
	PartnerTypeDelivery PartnerType = "delivery"
)

// Partner is a customer or one of its address children. Shipping twins carry
// Type delivery and a ParentID referencing the primary partner.
type Partner struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	Street      string
	Street2     string
	City        string
	Zip         string
	CountryCode string
	StateCode   string
	IsCompany   bool
	VATNumber   string
	Type        PartnerType
	ParentID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPartner creates a contact partner with the given name.
func NewPartner(name string) (*Partner, error) {
	if name == "" {
		return nil, ErrPartnerInvalidName
	}
	now := time.Now()
	return &Partner{
		ID:        uuid.New(),
		Name:      name,
		Type:      PartnerTypeContact,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PartnerStore persists partners.
type PartnerStore interface {
	// FindByID returns a partner or ErrPartnerNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// Create persists a new partner.
	Create(ctx context.Context, partner *Partner) error

	// Update overwrites an existing partner.
	Update(ctx context.Context, partner *Partner) error
}
