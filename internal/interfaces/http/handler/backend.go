package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/interfaces/http/dto"
)

// BackendHandler handles store connection management endpoints
type BackendHandler struct {
	BaseHandler
	backends connector.BackendRepository
}

// NewBackendHandler creates a new BackendHandler
func NewBackendHandler(backends connector.BackendRepository) *BackendHandler {
	return &BackendHandler{backends: backends}
}

// ListBackends returns every configured store connection
func (h *BackendHandler) ListBackends(c *gin.Context) {
	backends, err := h.backends.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.BackendResponse, len(backends))
	for i := range backends {
		responses[i] = toBackendResponse(&backends[i])
	}
	h.Success(c, responses)
}

// GetBackend returns one store connection by id
func (h *BackendHandler) GetBackend(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	backend, err := h.backends.FindByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBackendResponse(backend))
}

// CreateBackend registers a new store connection
func (h *BackendHandler) CreateBackend(c *gin.Context) {
	var req dto.CreateBackendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	now := time.Now()
	backend := &connector.Backend{
		ID:                      uuid.New(),
		Name:                    req.Name,
		Location:                req.Location,
		ConsumerKey:             req.ConsumerKey,
		ConsumerSecret:          req.ConsumerSecret,
		Version:                 req.Version,
		VerifySSL:               true,
		Enabled:                 true,
		ImportableOrderStatuses: req.ImportableOrderStatuses,
		MatchingProduct:         req.MatchingProduct,
		ProductQtyField:         connector.QtyField(req.ProductQtyField),
		PartnerVATField:         req.PartnerVATField,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if req.Version == "" {
		backend.Version = "wc/v2"
	}
	if req.VerifySSL != nil {
		backend.VerifySSL = *req.VerifySSL
	}
	if req.Enabled != nil {
		backend.Enabled = *req.Enabled
	}
	if req.ProductQtyField == "" {
		backend.ProductQtyField = connector.QtyFieldAvailable
	}
	if req.ShippingProductID != "" {
		backend.ShippingProductID = uuid.MustParse(req.ShippingProductID)
	}
	if req.FeeProductID != "" {
		backend.FeeProductID = uuid.MustParse(req.FeeProductID)
	}
	if req.SyncIntervalSeconds > 0 {
		backend.SyncInterval = time.Duration(req.SyncIntervalSeconds) * time.Second
	}

	if err := h.backends.Save(c.Request.Context(), backend); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toBackendResponse(backend))
}

// UpdateBackend changes the configuration of an existing store connection
func (h *BackendHandler) UpdateBackend(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	var req dto.UpdateBackendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	backend, err := h.backends.FindByID(ctx, uuid.MustParse(uriReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if req.Name != "" {
		backend.Name = req.Name
	}
	if req.Location != "" {
		backend.Location = req.Location
	}
	if req.ConsumerKey != "" {
		backend.ConsumerKey = req.ConsumerKey
	}
	if req.ConsumerSecret != "" {
		backend.ConsumerSecret = req.ConsumerSecret
	}
	if req.Version != "" {
		backend.Version = req.Version
	}
	if req.VerifySSL != nil {
		backend.VerifySSL = *req.VerifySSL
	}
	if req.Enabled != nil {
		backend.Enabled = *req.Enabled
	}
	if req.ImportableOrderStatuses != nil {
		backend.ImportableOrderStatuses = req.ImportableOrderStatuses
	}
	if req.MatchingProduct != nil {
		backend.MatchingProduct = *req.MatchingProduct
	}
	if req.ProductQtyField != "" {
		backend.ProductQtyField = connector.QtyField(req.ProductQtyField)
	}
	if req.ShippingProductID != "" {
		backend.ShippingProductID = uuid.MustParse(req.ShippingProductID)
	}
	if req.FeeProductID != "" {
		backend.FeeProductID = uuid.MustParse(req.FeeProductID)
	}
	if req.PartnerVATField != "" {
		backend.PartnerVATField = req.PartnerVATField
	}
	if req.SyncIntervalSeconds != nil {
		backend.SyncInterval = time.Duration(*req.SyncIntervalSeconds) * time.Second
	}
	backend.UpdatedAt = time.Now()

	if err := h.backends.Save(ctx, backend); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBackendResponse(backend))
}

// RegisterRoutes registers all backend management routes
func (h *BackendHandler) RegisterRoutes(rg *gin.RouterGroup) {
	backends := rg.Group("/backends")
	{
		backends.GET("", h.ListBackends)
		backends.GET("/:id", h.GetBackend)
		backends.POST("", h.CreateBackend)
		backends.PUT("/:id", h.UpdateBackend)
	}
}

func toBackendResponse(b *connector.Backend) dto.BackendResponse {
	resp := dto.BackendResponse{
		ID:                      b.ID.String(),
		Name:                    b.Name,
		Location:                b.Location,
		ConsumerKey:             b.ConsumerKey,
		Version:                 b.Version,
		VerifySSL:               b.VerifySSL,
		Enabled:                 b.Enabled,
		ImportableOrderStatuses: b.ImportableOrderStatuses,
		MatchingProduct:         b.MatchingProduct,
		ProductQtyField:         string(b.ProductQtyField),
		PartnerVATField:         b.PartnerVATField,
		SyncIntervalSeconds:     int(b.SyncInterval / time.Second),
		CreatedAt:               b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:               b.UpdatedAt.Format(time.RFC3339),
	}
	if b.ShippingProductID != uuid.Nil {
		resp.ShippingProductID = b.ShippingProductID.String()
	}
	if b.FeeProductID != uuid.Nil {
		resp.FeeProductID = b.FeeProductID.String()
	}
	return resp
}
