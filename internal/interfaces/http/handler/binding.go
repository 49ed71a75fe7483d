package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/interfaces/http/dto"
)

// BindingHandler handles record correspondence inspection endpoints
type BindingHandler struct {
	BaseHandler
	bindings connector.BindingRepository
}

// NewBindingHandler creates a new BindingHandler
func NewBindingHandler(bindings connector.BindingRepository) *BindingHandler {
	return &BindingHandler{bindings: bindings}
}

// ListBindings lists bindings of a backend, optionally filtered by kind
func (h *BindingHandler) ListBindings(c *gin.Context) {
	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid backend ID")
		return
	}

	req := dto.BindingListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	req.Normalize()

	bindings, err := h.bindings.FindByBackend(
		c.Request.Context(),
		uuid.MustParse(uriReq.ID),
		connector.EntityKind(req.EntityKind),
		req.PageSize,
		req.Offset(),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.BindingResponse, len(bindings))
	for i := range bindings {
		responses[i] = toBindingResponse(&bindings[i])
	}
	h.Success(c, responses)
}

// DeleteBinding removes a binding so the next import recreates the record
func (h *BindingHandler) DeleteBinding(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid binding ID")
		return
	}

	if err := h.bindings.Delete(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all binding routes
func (h *BindingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/backends/:id/bindings", h.ListBindings)
	rg.DELETE("/bindings/:id", h.DeleteBinding)
}

func toBindingResponse(b *connector.Binding) dto.BindingResponse {
	return dto.BindingResponse{
		ID:           b.ID.String(),
		BackendID:    b.BackendID.String(),
		EntityKind:   b.EntityKind.String(),
		ExternalID:   b.ExternalID,
		InternalID:   b.InternalID.String(),
		Secondary:    b.IsSecondary(),
		LastSyncedAt: b.LastSyncedAt.Format(time.RFC3339),
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}
