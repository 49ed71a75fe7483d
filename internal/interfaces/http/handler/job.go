package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
	"github.com/wooconnect/backend/internal/interfaces/http/dto"
)

// JobHandler handles import job inspection endpoints
type JobHandler struct {
	BaseHandler
	jobs connector.JobStore
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(jobs connector.JobStore) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// ListJobs lists jobs in a state, newest first. State defaults to pending.
func (h *JobHandler) ListJobs(c *gin.Context) {
	req := dto.JobListRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	req.Normalize()

	state := connector.JobState(req.State)
	if state == "" {
		state = connector.JobStatePending
	}

	jobs, err := h.jobs.FindByState(c.Request.Context(), state, req.PageSize, req.Offset())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = toJobResponse(&jobs[i])
	}
	h.Success(c, responses)
}

// GetJob returns one job by id
func (h *JobHandler) GetJob(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid job ID")
		return
	}

	job, err := h.jobs.FindByID(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if job == nil {
		h.NotFound(c, "Job not found")
		return
	}
	h.Success(c, toJobResponse(job))
}

// RegisterRoutes registers all job routes
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:id", h.GetJob)
	}
}

func toJobResponse(j *connector.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:         j.ID.String(),
		BackendID:  j.BackendID.String(),
		EntityKind: j.EntityKind.String(),
		ExternalID: j.ExternalID,
		Force:      j.Force,
		Channel:    j.Channel,
		Priority:   j.Priority,
		MaxRetries: j.MaxRetries,
		Attempts:   j.Attempts,
		State:      string(j.State),
		Note:       j.Note,
		RunAt:      j.RunAt.Format(time.RFC3339),
		CreatedAt:  j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  j.UpdatedAt.Format(time.RFC3339),
	}
}
