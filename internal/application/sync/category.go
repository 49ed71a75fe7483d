package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure CategoryHandler implements RecordHandler
var _ RecordHandler = (*CategoryHandler)(nil)

// categoryValues are the mapped local values of a remote product category.
type categoryValues struct {
	Name     string
	Slug     string
	ParentID *uuid.UUID
}

// CategoryHandler imports product categories. A category depends on its
// parent, so importing a leaf pulls the whole ancestor chain first.
type CategoryHandler struct {
	BaseHandler
	categories commerce.CategoryStore
}

// NewCategoryHandler creates the category record handler.
func NewCategoryHandler(categories commerce.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Kind reports the category entity kind.
func (h *CategoryHandler) Kind() connector.EntityKind { return connector.EntityKindCategory }

// Dependencies lists the parent category when the record has one.
func (h *CategoryHandler) Dependencies(p connector.Payload) []Dependency {
	parent := p.ID("parent")
	if parent == "" || parent == "0" {
		return nil
	}
	return []Dependency{{Kind: connector.EntityKindCategory, ExternalID: parent}}
}

// Map translates the payload into category values, resolving the parent
// binding when present.
func (h *CategoryHandler) Map(ctx context.Context, mc *MapContext, p connector.Payload) (any, error) {
	values := categoryValues{
		Name: p.String("name"),
		Slug: p.String("slug"),
	}
	if values.Name == "" {
		return nil, connector.NewMappingError(h.Kind(), p.ID("id"), "category has no name")
	}

	if parent := p.ID("parent"); parent != "" && parent != "0" {
		parentID, err := mc.Internal(ctx, connector.EntityKindCategory, parent)
		if err != nil {
			return nil, err
		}
		values.ParentID = &parentID
	}
	return values, nil
}

// Create persists a new local category.
func (h *CategoryHandler) Create(ctx context.Context, mc *MapContext, p connector.Payload, values any) (uuid.UUID, error) {
	v := values.(categoryValues)
	now := time.Now()
	category := &commerce.Category{
		ID:        uuid.New(),
		Name:      v.Name,
		Slug:      v.Slug,
		ParentID:  v.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.categories.Create(ctx, category); err != nil {
		return uuid.Nil, err
	}
	return category.ID, nil
}

// Update applies the mapped values to the bound local category.
func (h *CategoryHandler) Update(ctx context.Context, mc *MapContext, internalID uuid.UUID, values any) error {
	v := values.(categoryValues)
	category, err := h.categories.FindByID(ctx, internalID)
	if err != nil {
		return fmt.Errorf("load category %s: %w", internalID, err)
	}
	category.Name = v.Name
	category.Slug = v.Slug
	category.ParentID = v.ParentID
	category.UpdatedAt = time.Now()
	return h.categories.Update(ctx, category)
}
