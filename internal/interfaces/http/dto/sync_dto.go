package dto

// CreateBackendRequest represents a request to register a store connection
type CreateBackendRequest struct {
	Name                    string   `json:"name" binding:"required,min=1,max=100"`
	Location                string   `json:"location" binding:"required,url"`
	ConsumerKey             string   `json:"consumer_key" binding:"required"`
	ConsumerSecret          string   `json:"consumer_secret" binding:"required"`
	Version                 string   `json:"version" binding:"omitempty"`
	VerifySSL               *bool    `json:"verify_ssl"`
	Enabled                 *bool    `json:"enabled"`
	ImportableOrderStatuses []string `json:"importable_order_statuses"`
	MatchingProduct         bool     `json:"matching_product"`
	ProductQtyField         string   `json:"product_qty_field" binding:"omitempty,oneof=qty_available qty_available_not_res"`
	ShippingProductID       string   `json:"shipping_product_id" binding:"omitempty,uuid"`
	FeeProductID            string   `json:"fee_product_id" binding:"omitempty,uuid"`
	PartnerVATField         string   `json:"partner_vat_field"`
	SyncIntervalSeconds     int      `json:"sync_interval_seconds" binding:"omitempty,min=60"`
}

// UpdateBackendRequest represents a request to update a store connection
type UpdateBackendRequest struct {
	Name                    string   `json:"name" binding:"omitempty,min=1,max=100"`
	Location                string   `json:"location" binding:"omitempty,url"`
	ConsumerKey             string   `json:"consumer_key"`
	ConsumerSecret          string   `json:"consumer_secret"`
	Version                 string   `json:"version"`
	VerifySSL               *bool    `json:"verify_ssl"`
	Enabled                 *bool    `json:"enabled"`
	ImportableOrderStatuses []string `json:"importable_order_statuses"`
	MatchingProduct         *bool    `json:"matching_product"`
	ProductQtyField         string   `json:"product_qty_field" binding:"omitempty,oneof=qty_available qty_available_not_res"`
	ShippingProductID       string   `json:"shipping_product_id" binding:"omitempty,uuid"`
	FeeProductID            string   `json:"fee_product_id" binding:"omitempty,uuid"`
	PartnerVATField         string   `json:"partner_vat_field"`
	SyncIntervalSeconds     *int     `json:"sync_interval_seconds" binding:"omitempty,min=60"`
}

// BackendResponse represents a store connection in the response.
// The consumer secret is never echoed back.
type BackendResponse struct {
	ID                      string   `json:"id"`
	Name                    string   `json:"name"`
	Location                string   `json:"location"`
	ConsumerKey             string   `json:"consumer_key"`
	Version                 string   `json:"version"`
	VerifySSL               bool     `json:"verify_ssl"`
	Enabled                 bool     `json:"enabled"`
	ImportableOrderStatuses []string `json:"importable_order_statuses"`
	MatchingProduct         bool     `json:"matching_product"`
	ProductQtyField         string   `json:"product_qty_field"`
	ShippingProductID       string   `json:"shipping_product_id,omitempty"`
	FeeProductID            string   `json:"fee_product_id,omitempty"`
	PartnerVATField         string   `json:"partner_vat_field,omitempty"`
	SyncIntervalSeconds     int      `json:"sync_interval_seconds"`
	CreatedAt               string   `json:"created_at"`
	UpdatedAt               string   `json:"updated_at"`
}

// ImportRecordRequest represents a request to import one remote record
type ImportRecordRequest struct {
	EntityKind string `json:"entity_kind" binding:"required,oneof=category product customer order carrier"`
	ExternalID string `json:"external_id" binding:"required"`
	Force      bool   `json:"force"`
}

// EnqueueImportRequest represents a request to queue one remote record import
type EnqueueImportRequest struct {
	EntityKind string `json:"entity_kind" binding:"required,oneof=category product customer order carrier"`
	ExternalID string `json:"external_id" binding:"required"`
	Force      bool   `json:"force"`
	Priority   int    `json:"priority"`
	MaxRetries *int   `json:"max_retries" binding:"omitempty,min=0"`
	Channel    string `json:"channel"`
}

// ImportRecordResponse represents the outcome of a direct record import
type ImportRecordResponse struct {
	EntityKind string `json:"entity_kind"`
	ExternalID string `json:"external_id"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// ImportBatchResponse represents the result of a batch discovery run
type ImportBatchResponse struct {
	EntityKind string `json:"entity_kind"`
	Enqueued   int    `json:"enqueued"`
}

// ExportInventoryRequest represents a request to push stock for one product
type ExportInventoryRequest struct {
	ProductID     string   `json:"product_id" binding:"required,uuid"`
	ChangedFields []string `json:"changed_fields"`
}

// BindingResponse represents a record correspondence in the response
type BindingResponse struct {
	ID           string `json:"id"`
	BackendID    string `json:"backend_id"`
	EntityKind   string `json:"entity_kind"`
	ExternalID   string `json:"external_id"`
	InternalID   string `json:"internal_id"`
	Secondary    bool   `json:"secondary"`
	LastSyncedAt string `json:"last_synced_at"`
	CreatedAt    string `json:"created_at"`
}

// BindingListRequest represents query parameters for listing bindings
type BindingListRequest struct {
	ListRequest
	EntityKind string `form:"entity_kind" binding:"omitempty,oneof=category product customer order carrier"`
}

// JobResponse represents a queued import job in the response
type JobResponse struct {
	ID         string `json:"id"`
	BackendID  string `json:"backend_id"`
	EntityKind string `json:"entity_kind"`
	ExternalID string `json:"external_id"`
	Force      bool   `json:"force"`
	Channel    string `json:"channel"`
	Priority   int    `json:"priority"`
	MaxRetries int    `json:"max_retries"`
	Attempts   int    `json:"attempts"`
	State      string `json:"state"`
	Note       string `json:"note,omitempty"`
	RunAt      string `json:"run_at"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// JobListRequest represents query parameters for listing jobs
type JobListRequest struct {
	ListRequest
	State string `form:"state" binding:"omitempty,oneof=pending running done failed"`
}
