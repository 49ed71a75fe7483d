package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// newTestRouter routes requests through a real engine so URI parameters bind.
func newTestRouter(register func(rg *gin.RouterGroup)) *gin.Engine {
	engine := gin.New()
	register(engine.Group("/api/v1"))
	return engine
}

type fakeBackendRepo struct {
	backends map[uuid.UUID]*connector.Backend
	saveErr  error
	saved    []*connector.Backend
}

func newFakeBackendRepo(backends ...*connector.Backend) *fakeBackendRepo {
	r := &fakeBackendRepo{backends: make(map[uuid.UUID]*connector.Backend)}
	for _, b := range backends {
		r.backends[b.ID] = b
	}
	return r
}

func (r *fakeBackendRepo) FindByID(_ context.Context, id uuid.UUID) (*connector.Backend, error) {
	b, ok := r.backends[id]
	if !ok {
		return nil, connector.ErrBackendNotFound
	}
	return b, nil
}

func (r *fakeBackendRepo) FindEnabled(_ context.Context) ([]connector.Backend, error) {
	var out []connector.Backend
	for _, b := range r.backends {
		if b.Enabled {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBackendRepo) FindAll(_ context.Context) ([]connector.Backend, error) {
	out := make([]connector.Backend, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBackendRepo) Save(_ context.Context, backend *connector.Backend) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *backend
	r.saved = append(r.saved, &cp)
	r.backends[backend.ID] = &cp
	return nil
}

type fakeSyncService struct {
	batchCounts map[connector.EntityKind]int
	batchErr    error
	outcome     connector.ImportOutcome
	recordErr   error
	exportErr   error

	recordCalls []recordCall
	exportCalls []exportCall
	allCalls    []uuid.UUID
}

type recordCall struct {
	backendID  uuid.UUID
	kind       connector.EntityKind
	externalID string
	force      bool
}

type exportCall struct {
	backendID     uuid.UUID
	productID     uuid.UUID
	changedFields []string
}

func (s *fakeSyncService) batch(kind connector.EntityKind) (int, error) {
	if s.batchErr != nil {
		return 0, s.batchErr
	}
	return s.batchCounts[kind], nil
}

func (s *fakeSyncService) ImportCategories(_ context.Context, _ uuid.UUID) (int, error) {
	return s.batch(connector.EntityKindCategory)
}

func (s *fakeSyncService) ImportProducts(_ context.Context, _ uuid.UUID) (int, error) {
	return s.batch(connector.EntityKindProduct)
}

func (s *fakeSyncService) ImportCustomers(_ context.Context, _ uuid.UUID) (int, error) {
	return s.batch(connector.EntityKindCustomer)
}

func (s *fakeSyncService) ImportOrders(_ context.Context, _ uuid.UUID) (int, error) {
	return s.batch(connector.EntityKindOrder)
}

func (s *fakeSyncService) ImportCarriers(_ context.Context, _ uuid.UUID) (int, error) {
	return s.batch(connector.EntityKindCarrier)
}

func (s *fakeSyncService) ImportAll(_ context.Context, backendID uuid.UUID) error {
	s.allCalls = append(s.allCalls, backendID)
	return s.batchErr
}

func (s *fakeSyncService) ImportRecord(_ context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string, force bool) (connector.ImportOutcome, error) {
	s.recordCalls = append(s.recordCalls, recordCall{backendID, kind, externalID, force})
	if s.recordErr != nil {
		return connector.ImportOutcome{}, s.recordErr
	}
	return s.outcome, nil
}

func (s *fakeSyncService) ExportInventory(_ context.Context, backendID uuid.UUID, productID uuid.UUID, changedFields []string) error {
	s.exportCalls = append(s.exportCalls, exportCall{backendID, productID, changedFields})
	return s.exportErr
}

type fakeJobQueue struct {
	jobs []connector.ImportJob
	opts []connector.JobOptions
	err  error
}

func (q *fakeJobQueue) Enqueue(_ context.Context, job connector.ImportJob, opts connector.JobOptions) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	q.opts = append(q.opts, opts)
	return nil
}

type fakeBindingRepo struct {
	bindings []connector.Binding
	deleted  []uuid.UUID
	err      error
}

func (r *fakeBindingRepo) FindByExternal(_ context.Context, _ uuid.UUID, _ connector.EntityKind, _ string) ([]connector.Binding, error) {
	return nil, nil
}

func (r *fakeBindingRepo) FindPrimaryByInternal(_ context.Context, _ uuid.UUID, _ connector.EntityKind, _ uuid.UUID) (*connector.Binding, error) {
	return nil, connector.ErrBindingNotFound
}

func (r *fakeBindingRepo) Upsert(_ context.Context, _ *connector.Binding) error {
	return nil
}

func (r *fakeBindingRepo) Delete(_ context.Context, id uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeBindingRepo) FindByBackend(_ context.Context, backendID uuid.UUID, kind connector.EntityKind, limit, offset int) ([]connector.Binding, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []connector.Binding
	for _, b := range r.bindings {
		if b.BackendID != backendID {
			continue
		}
		if kind != "" && b.EntityKind != kind {
			continue
		}
		out = append(out, b)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeJobStore struct {
	jobs []connector.Job
	err  error
}

func (s *fakeJobStore) Save(_ context.Context, _ *connector.Job) error {
	return nil
}

func (s *fakeJobStore) ClaimDue(_ context.Context, _ time.Time, _ int) ([]connector.Job, error) {
	return nil, nil
}

func (s *fakeJobStore) FindByID(_ context.Context, id uuid.UUID) (*connector.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return &s.jobs[i], nil
		}
	}
	return nil, nil
}

func (s *fakeJobStore) FindByState(_ context.Context, state connector.JobState, limit, offset int) ([]connector.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []connector.Job
	for _, j := range s.jobs {
		if j.State == state {
			out = append(out, j)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
