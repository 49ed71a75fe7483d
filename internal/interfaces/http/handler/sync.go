package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/interfaces/http/dto"
)

// SyncService runs imports and exports against a store connection.
type SyncService interface {
	ImportCategories(ctx context.Context, backendID uuid.UUID) (int, error)
	ImportProducts(ctx context.Context, backendID uuid.UUID) (int, error)
	ImportCustomers(ctx context.Context, backendID uuid.UUID) (int, error)
	ImportOrders(ctx context.Context, backendID uuid.UUID) (int, error)
	ImportCarriers(ctx context.Context, backendID uuid.UUID) (int, error)
	ImportAll(ctx context.Context, backendID uuid.UUID) error
	ImportRecord(ctx context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string, force bool) (connector.ImportOutcome, error)
	ExportInventory(ctx context.Context, backendID uuid.UUID, productID uuid.UUID, changedFields []string) error
}

// SyncHandler handles synchronization endpoints
type SyncHandler struct {
	BaseHandler
	service SyncService
	queue   connector.JobQueue
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(service SyncService, queue connector.JobQueue) *SyncHandler {
	return &SyncHandler{service: service, queue: queue}
}

// ImportAll runs batch discovery for every entity kind, in dependency order
func (h *SyncHandler) ImportAll(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	backendID := uuid.MustParse(req.ID)
	if err := h.service.ImportAll(c.Request.Context(), backendID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"backend_id": backendID.String()})
}

// ImportKind runs batch discovery for one entity kind
func (h *SyncHandler) ImportKind(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	kind := connector.EntityKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Unknown entity kind: "+c.Param("kind"))
		return
	}

	backendID := uuid.MustParse(req.ID)
	ctx := c.Request.Context()

	var (
		enqueued int
		err      error
	)
	switch kind {
	case connector.EntityKindCategory:
		enqueued, err = h.service.ImportCategories(ctx, backendID)
	case connector.EntityKindProduct:
		enqueued, err = h.service.ImportProducts(ctx, backendID)
	case connector.EntityKindCustomer:
		enqueued, err = h.service.ImportCustomers(ctx, backendID)
	case connector.EntityKindOrder:
		enqueued, err = h.service.ImportOrders(ctx, backendID)
	case connector.EntityKindCarrier:
		enqueued, err = h.service.ImportCarriers(ctx, backendID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ImportBatchResponse{
		EntityKind: kind.String(),
		Enqueued:   enqueued,
	})
}

// ImportRecord imports one remote record synchronously
func (h *SyncHandler) ImportRecord(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	var req dto.ImportRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	backendID := uuid.MustParse(uriReq.ID)
	kind := connector.EntityKind(req.EntityKind)

	outcome, err := h.service.ImportRecord(c.Request.Context(), backendID, kind, req.ExternalID, req.Force)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ImportRecordResponse{
		EntityKind: kind.String(),
		ExternalID: req.ExternalID,
		Skipped:    outcome.IsSkipped(),
		SkipReason: outcome.Reason,
	})
}

// EnqueueImport queues one remote record for asynchronous import
func (h *SyncHandler) EnqueueImport(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	var req dto.EnqueueImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	job := connector.ImportJob{
		BackendID:  uuid.MustParse(uriReq.ID),
		EntityKind: connector.EntityKind(req.EntityKind),
		ExternalID: req.ExternalID,
		Force:      req.Force,
	}
	opts := connector.JobOptions{
		Priority:   req.Priority,
		MaxRetries: req.MaxRetries,
		Channel:    req.Channel,
	}

	if err := h.queue.Enqueue(c.Request.Context(), job, opts); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{
		"entity_kind": req.EntityKind,
		"external_id": req.ExternalID,
	})
}

// ExportInventory pushes the stock quantity of one product to the store
func (h *SyncHandler) ExportInventory(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	var req dto.ExportInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	backendID := uuid.MustParse(uriReq.ID)
	productID := uuid.MustParse(req.ProductID)

	if err := h.service.ExportInventory(c.Request.Context(), backendID, productID, req.ChangedFields); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"product_id": productID.String()})
}

// RegisterRoutes registers all synchronization routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backends := rg.Group("/backends/:id")
	{
		backends.POST("/import", h.ImportAll)
		backends.POST("/import/:kind", h.ImportKind)
		backends.POST("/records/import", h.ImportRecord)
		backends.POST("/jobs", h.EnqueueImport)
		backends.POST("/export/inventory", h.ExportInventory)
	}
}
