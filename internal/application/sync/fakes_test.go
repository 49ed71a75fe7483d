package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/commerce"
	"github.com/wooconnect/backend/internal/domain/connector"
)

// decode parses a JSON fixture into a payload the way the HTTP client does.
func decode(t *testing.T, raw string) connector.Payload {
	t.Helper()
	var p connector.Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return p
}

func testBackend() *connector.Backend {
	return &connector.Backend{
		ID:             uuid.New(),
		Name:           "test-store",
		Location:       "https://store.example.com",
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
		Version:        "wc/v2",
		Enabled:        true,
	}
}

// ---------------------------------------------------------------------------
// Binding repository
// ---------------------------------------------------------------------------

type fakeBindingRepo struct {
	rows map[string]connector.Binding
}

func newFakeBindingRepo() *fakeBindingRepo {
	return &fakeBindingRepo{rows: make(map[string]connector.Binding)}
}

func bindingKey(backendID uuid.UUID, kind connector.EntityKind, externalID string) string {
	return fmt.Sprintf("%s|%s|%s", backendID, kind, externalID)
}

func (r *fakeBindingRepo) FindByExternal(_ context.Context, backendID uuid.UUID, kind connector.EntityKind, externalID string) ([]connector.Binding, error) {
	if row, ok := r.rows[bindingKey(backendID, kind, externalID)]; ok {
		return []connector.Binding{row}, nil
	}
	return nil, nil
}

func (r *fakeBindingRepo) FindPrimaryByInternal(_ context.Context, backendID uuid.UUID, kind connector.EntityKind, internalID uuid.UUID) (*connector.Binding, error) {
	for _, row := range r.rows {
		if row.BackendID == backendID && row.EntityKind == kind && row.InternalID == internalID && !row.IsSecondary() {
			b := row
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBindingRepo) Upsert(_ context.Context, binding *connector.Binding) error {
	r.rows[bindingKey(binding.BackendID, binding.EntityKind, binding.ExternalID)] = *binding
	return nil
}

func (r *fakeBindingRepo) Delete(_ context.Context, id uuid.UUID) error {
	for key, row := range r.rows {
		if row.ID == id {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *fakeBindingRepo) FindByBackend(_ context.Context, backendID uuid.UUID, kind connector.EntityKind, limit, offset int) ([]connector.Binding, error) {
	var out []connector.Binding
	for _, row := range r.rows {
		if row.BackendID == backendID && (kind == "" || row.EntityKind == kind) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

func (r *fakeBindingRepo) count() int { return len(r.rows) }

// ---------------------------------------------------------------------------
// Remote client
// ---------------------------------------------------------------------------

type remoteUpdate struct {
	kind       connector.EntityKind
	externalID string
	data       connector.Payload
}

type fakeClient struct {
	// records serves Read, keyed by kind then external id.
	records map[connector.EntityKind]map[string]connector.Payload
	// ids serves Search, paginated by PerPage.
	ids map[connector.EntityKind][]string
	// searchFail injects a failure at a given search offset.
	searchFail map[int]error
	// binaries serves FetchBinary; a missing URL yields (nil, nil).
	binaries  map[string][]byte
	binaryErr map[string]error

	reads    []string
	searches []connector.SearchParams
	updates  []remoteUpdate
	fetched  []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		records:    make(map[connector.EntityKind]map[string]connector.Payload),
		ids:        make(map[connector.EntityKind][]string),
		searchFail: make(map[int]error),
		binaries:   make(map[string][]byte),
		binaryErr:  make(map[string]error),
	}
}

func (c *fakeClient) addRecord(kind connector.EntityKind, externalID string, p connector.Payload) {
	if c.records[kind] == nil {
		c.records[kind] = make(map[string]connector.Payload)
	}
	c.records[kind][externalID] = p
}

func (c *fakeClient) Search(_ context.Context, kind connector.EntityKind, params connector.SearchParams) ([]connector.RemoteSummary, error) {
	c.searches = append(c.searches, params)
	if err, ok := c.searchFail[params.Offset]; ok {
		return nil, err
	}
	ids := c.ids[kind]
	if params.Offset >= len(ids) {
		return nil, nil
	}
	end := params.Offset + params.PerPage
	if end > len(ids) {
		end = len(ids)
	}
	out := make([]connector.RemoteSummary, 0, end-params.Offset)
	for _, id := range ids[params.Offset:end] {
		out = append(out, connector.RemoteSummary{ExternalID: id})
	}
	return out, nil
}

func (c *fakeClient) Read(_ context.Context, kind connector.EntityKind, externalID string) (connector.Payload, error) {
	c.reads = append(c.reads, fmt.Sprintf("%s:%s", kind, externalID))
	p, ok := c.records[kind][externalID]
	if !ok {
		return nil, &connector.RemoteError{StatusCode: 404, Code: "woocommerce_rest_invalid_id", Message: "Invalid ID."}
	}
	return p, nil
}

func (c *fakeClient) Create(_ context.Context, kind connector.EntityKind, _ connector.Payload) (string, error) {
	return "", fmt.Errorf("create %s not supported", kind)
}

func (c *fakeClient) Update(_ context.Context, kind connector.EntityKind, externalID string, data connector.Payload) error {
	c.updates = append(c.updates, remoteUpdate{kind: kind, externalID: externalID, data: data})
	return nil
}

func (c *fakeClient) FetchBinary(_ context.Context, url string) ([]byte, error) {
	c.fetched = append(c.fetched, url)
	if err, ok := c.binaryErr[url]; ok {
		return nil, err
	}
	return c.binaries[url], nil
}

type fakeFactory struct {
	client *fakeClient
}

func (f *fakeFactory) ClientFor(*connector.Backend) (connector.RemoteClient, error) {
	return f.client, nil
}

// ---------------------------------------------------------------------------
// Queue and dedupe
// ---------------------------------------------------------------------------

type enqueued struct {
	job  connector.ImportJob
	opts connector.JobOptions
}

type fakeQueue struct {
	jobs []enqueued
}

func (q *fakeQueue) Enqueue(_ context.Context, job connector.ImportJob, opts connector.JobOptions) error {
	q.jobs = append(q.jobs, enqueued{job: job, opts: opts})
	return nil
}

type fakeDedupe struct {
	held map[string]struct{}
}

func newFakeDedupe() *fakeDedupe {
	return &fakeDedupe{held: make(map[string]struct{})}
}

func (d *fakeDedupe) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	if _, ok := d.held[key]; ok {
		return false, nil
	}
	d.held[key] = struct{}{}
	return true, nil
}

// ---------------------------------------------------------------------------
// Commerce stores
// ---------------------------------------------------------------------------

type fakePartnerStore struct {
	rows    map[uuid.UUID]*commerce.Partner
	created int
}

func newFakePartnerStore() *fakePartnerStore {
	return &fakePartnerStore{rows: make(map[uuid.UUID]*commerce.Partner)}
}

func (s *fakePartnerStore) FindByID(_ context.Context, id uuid.UUID) (*commerce.Partner, error) {
	p, ok := s.rows[id]
	if !ok {
		return nil, commerce.ErrPartnerNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakePartnerStore) Create(_ context.Context, partner *commerce.Partner) error {
	cp := *partner
	s.rows[partner.ID] = &cp
	s.created++
	return nil
}

func (s *fakePartnerStore) Update(_ context.Context, partner *commerce.Partner) error {
	if _, ok := s.rows[partner.ID]; !ok {
		return commerce.ErrPartnerNotFound
	}
	cp := *partner
	s.rows[partner.ID] = &cp
	return nil
}

type fakeCategoryStore struct {
	rows    map[uuid.UUID]*commerce.Category
	created int
}

func newFakeCategoryStore() *fakeCategoryStore {
	return &fakeCategoryStore{rows: make(map[uuid.UUID]*commerce.Category)}
}

func (s *fakeCategoryStore) FindByID(_ context.Context, id uuid.UUID) (*commerce.Category, error) {
	c, ok := s.rows[id]
	if !ok {
		return nil, commerce.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCategoryStore) Create(_ context.Context, category *commerce.Category) error {
	cp := *category
	s.rows[category.ID] = &cp
	s.created++
	return nil
}

func (s *fakeCategoryStore) Update(_ context.Context, category *commerce.Category) error {
	cp := *category
	s.rows[category.ID] = &cp
	return nil
}

type fakeProductStore struct {
	rows    map[uuid.UUID]*commerce.Product
	created int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{rows: make(map[uuid.UUID]*commerce.Product)}
}

func (s *fakeProductStore) FindByID(_ context.Context, id uuid.UUID) (*commerce.Product, error) {
	p, ok := s.rows[id]
	if !ok {
		return nil, commerce.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProductStore) FindBySKU(_ context.Context, sku string) (*commerce.Product, error) {
	for _, p := range s.rows {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, commerce.ErrProductNotFound
}

func (s *fakeProductStore) Create(_ context.Context, product *commerce.Product) error {
	cp := *product
	s.rows[product.ID] = &cp
	s.created++
	return nil
}

func (s *fakeProductStore) Update(_ context.Context, product *commerce.Product) error {
	cp := *product
	s.rows[product.ID] = &cp
	return nil
}

type fakeOrderStore struct {
	rows    map[uuid.UUID]*commerce.SaleOrder
	lines   map[uuid.UUID][]commerce.SaleOrderLine
	created int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		rows:  make(map[uuid.UUID]*commerce.SaleOrder),
		lines: make(map[uuid.UUID][]commerce.SaleOrderLine),
	}
}

func (s *fakeOrderStore) FindByID(_ context.Context, id uuid.UUID) (*commerce.SaleOrder, error) {
	o, ok := s.rows[id]
	if !ok {
		return nil, commerce.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) Create(_ context.Context, order *commerce.SaleOrder) error {
	cp := *order
	s.rows[order.ID] = &cp
	s.created++
	return nil
}

func (s *fakeOrderStore) Update(_ context.Context, order *commerce.SaleOrder) error {
	cp := *order
	s.rows[order.ID] = &cp
	return nil
}

func (s *fakeOrderStore) AddLine(_ context.Context, line *commerce.SaleOrderLine) error {
	s.lines[line.OrderID] = append(s.lines[line.OrderID], *line)
	return nil
}

func (s *fakeOrderStore) Lines(_ context.Context, orderID uuid.UUID) ([]commerce.SaleOrderLine, error) {
	out := append([]commerce.SaleOrderLine(nil), s.lines[orderID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (s *fakeOrderStore) ReplaceLines(_ context.Context, orderID uuid.UUID, lines []commerce.SaleOrderLine) error {
	s.lines[orderID] = append([]commerce.SaleOrderLine(nil), lines...)
	return nil
}

type fakeCarrierStore struct {
	rows    map[uuid.UUID]*commerce.DeliveryCarrier
	created int
}

func newFakeCarrierStore() *fakeCarrierStore {
	return &fakeCarrierStore{rows: make(map[uuid.UUID]*commerce.DeliveryCarrier)}
}

func (s *fakeCarrierStore) FindByID(_ context.Context, id uuid.UUID) (*commerce.DeliveryCarrier, error) {
	c, ok := s.rows[id]
	if !ok {
		return nil, commerce.ErrCarrierNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCarrierStore) Create(_ context.Context, carrier *commerce.DeliveryCarrier) error {
	cp := *carrier
	s.rows[carrier.ID] = &cp
	s.created++
	return nil
}

func (s *fakeCarrierStore) Update(_ context.Context, carrier *commerce.DeliveryCarrier) error {
	cp := *carrier
	s.rows[carrier.ID] = &cp
	return nil
}

type fakePaymentModeStore struct {
	rows map[string]*commerce.PaymentMode
}

func newFakePaymentModeStore(modes ...*commerce.PaymentMode) *fakePaymentModeStore {
	s := &fakePaymentModeStore{rows: make(map[string]*commerce.PaymentMode)}
	for _, m := range modes {
		s.rows[m.Code] = m
	}
	return s
}

func (s *fakePaymentModeStore) FindByCode(_ context.Context, code string) (*commerce.PaymentMode, error) {
	m, ok := s.rows[code]
	if !ok {
		return nil, commerce.ErrPaymentModeNotFound
	}
	cp := *m
	return &cp, nil
}

// ---------------------------------------------------------------------------
// Backends and watermarks
// ---------------------------------------------------------------------------

type fakeBackendRepo struct {
	rows map[uuid.UUID]*connector.Backend
}

func newFakeBackendRepo(backends ...*connector.Backend) *fakeBackendRepo {
	r := &fakeBackendRepo{rows: make(map[uuid.UUID]*connector.Backend)}
	for _, b := range backends {
		r.rows[b.ID] = b
	}
	return r
}

func (r *fakeBackendRepo) FindByID(_ context.Context, id uuid.UUID) (*connector.Backend, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, connector.ErrBackendNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBackendRepo) FindEnabled(_ context.Context) ([]connector.Backend, error) {
	var out []connector.Backend
	for _, b := range r.rows {
		if b.Enabled {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBackendRepo) FindAll(_ context.Context) ([]connector.Backend, error) {
	out := make([]connector.Backend, 0, len(r.rows))
	for _, b := range r.rows {
		out = append(out, *b)
	}
	return out, nil
}

func (r *fakeBackendRepo) Save(_ context.Context, backend *connector.Backend) error {
	cp := *backend
	r.rows[backend.ID] = &cp
	return nil
}

type watermarkKeyT struct {
	backendID uuid.UUID
	kind      connector.EntityKind
}

type fakeWatermarkStore struct {
	rows     map[watermarkKeyT]time.Time
	advances int
}

func newFakeWatermarkStore() *fakeWatermarkStore {
	return &fakeWatermarkStore{rows: make(map[watermarkKeyT]time.Time)}
}

func (s *fakeWatermarkStore) Get(_ context.Context, backendID uuid.UUID, kind connector.EntityKind) (time.Time, error) {
	return s.rows[watermarkKeyT{backendID, kind}], nil
}

func (s *fakeWatermarkStore) Advance(_ context.Context, backendID uuid.UUID, kind connector.EntityKind, since time.Time) error {
	s.rows[watermarkKeyT{backendID, kind}] = since
	s.advances++
	return nil
}

// ---------------------------------------------------------------------------
// Engine wiring helper
// ---------------------------------------------------------------------------

type engineFixture struct {
	backend    *connector.Backend
	client     *fakeClient
	factory    *fakeFactory
	bindings   *fakeBindingRepo
	binder     *Binder
	registry   *Registry
	partners   *fakePartnerStore
	products   *fakeProductStore
	categories *fakeCategoryStore
	orders     *fakeOrderStore
	carriers   *fakeCarrierStore
	modes      *fakePaymentModeStore
}

// newEngineFixture wires all five importers over in-memory stores.
func newEngineFixture(modes ...*commerce.PaymentMode) *engineFixture {
	f := &engineFixture{
		backend:    testBackend(),
		client:     newFakeClient(),
		bindings:   newFakeBindingRepo(),
		registry:   NewRegistry(),
		partners:   newFakePartnerStore(),
		products:   newFakeProductStore(),
		categories: newFakeCategoryStore(),
		orders:     newFakeOrderStore(),
		carriers:   newFakeCarrierStore(),
		modes:      newFakePaymentModeStore(modes...),
	}
	f.factory = &fakeFactory{client: f.client}
	f.binder = NewBinder(f.bindings)

	register := func(h RecordHandler, rule ImportRule) {
		f.registry.RegisterImporter(NewImporter(h, rule, f.binder, f.factory, f.registry, nil))
	}
	register(NewCategoryHandler(f.categories), nil)
	register(NewProductHandler(f.products, nil, nil), nil)
	register(NewCustomerHandler(f.partners, nil), nil)
	register(NewCarrierHandler(f.carriers), nil)
	register(NewOrderHandler(f.orders, f.partners, f.modes, nil), NewOrderImportRule(f.modes))
	return f
}

func (f *engineFixture) run(t *testing.T, kind connector.EntityKind, externalID string, force bool) connector.ImportOutcome {
	t.Helper()
	imp, err := f.registry.Importer(kind)
	if err != nil {
		t.Fatalf("importer for %s: %v", kind, err)
	}
	outcome, err := imp.Run(context.Background(), f.backend, externalID, ImportOptions{Force: force})
	if err != nil {
		t.Fatalf("run %s %s: %v", kind, externalID, err)
	}
	return outcome
}

func (f *engineFixture) binding(t *testing.T, kind connector.EntityKind, externalID string) *connector.Binding {
	t.Helper()
	binding, err := f.binder.ToInternal(context.Background(), f.backend.ID, kind, externalID)
	if err != nil {
		t.Fatalf("binding %s %s: %v", kind, externalID, err)
	}
	return binding
}
