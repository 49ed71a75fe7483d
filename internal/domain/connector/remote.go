package connector

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Payload
// ---------------------------------------------------------------------------

// Payload is the raw JSON document of a remote record.
type Payload map[string]any

// String returns the value under key as a string, or "" when absent or of
// another type.
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Map returns the nested object under key, or nil.
func (p Payload) Map(key string) Payload {
	switch v := p[key].(type) {
	case Payload:
		return v
	case map[string]any:
		return Payload(v)
	default:
		return nil
	}
}

// List returns the array of objects under key. Non-object elements are
// skipped.
func (p Payload) List(key string) []Payload {
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Payload, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Payload(m))
		}
	}
	return out
}

// ID returns the record id under key as a string. JSON numbers are rendered
// without an exponent so that numeric and string ids compare equal.
func (p Payload) ID(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return ""
	}
}

// Decimal parses the value under key as a decimal. WooCommerce renders
// amounts as strings; numbers are accepted too. Missing or unparsable values
// yield zero.
func (p Payload) Decimal(key string) decimal.Decimal {
	switch v := p[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// Bool returns the value under key as a bool.
func (p Payload) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Time parses the value under key using the platform datetime format.
func (p Payload) Time(key string) (time.Time, bool) {
	s, ok := p[key].(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(RemoteDatetimeFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RemoteDatetimeFormat is the datetime layout used by the platform API.
const RemoteDatetimeFormat = "2006-01-02T15:04:05"

// ---------------------------------------------------------------------------
// RemoteClient port
// ---------------------------------------------------------------------------

// SearchPageSize is the fixed discovery page size, balancing round-trip count
// against per-request payload size and the platform's rate limits.
const SearchPageSize = 25

// SearchParams bound a discovery query. Offset-based pagination: the caller
// advances Offset by the page size until a short page is returned.
type SearchParams struct {
	// Filters are passed through to the remote search endpoint.
	Filters map[string]string
	// UpdatedFrom bounds the query to records modified at or after this time.
	UpdatedFrom *time.Time
	// UpdatedTo bounds the query to records modified at or before this time.
	UpdatedTo *time.Time
	// Offset is the zero-based position of the page.
	Offset int
	// PerPage is the page size; zero means SearchPageSize.
	PerPage int
}

// RemoteSummary is one search result: the external id plus the summary
// document returned by the list endpoint.
type RemoteSummary struct {
	ExternalID string
	Summary    Payload
}

// RemoteClient is the transport boundary to one WooCommerce store. Every
// method is a blocking network round-trip; transport failures are classified
// into the connector error taxonomy before they reach the engine.
type RemoteClient interface {
	// Search returns one page of ids/summaries matching the params.
	Search(ctx context.Context, kind EntityKind, params SearchParams) ([]RemoteSummary, error)

	// Read returns the full payload of a record.
	Read(ctx context.Context, kind EntityKind, externalID string) (Payload, error)

	// Create creates a record on the platform and returns its id.
	Create(ctx context.Context, kind EntityKind, data Payload) (string, error)

	// Update updates a record on the platform.
	Update(ctx context.Context, kind EntityKind, externalID string, data Payload) error

	// FetchBinary downloads an asset (product image) by URL. A nil slice with
	// a nil error means the asset is gone and the candidate should be skipped.
	FetchBinary(ctx context.Context, url string) ([]byte, error)
}

// ClientFactory builds (and may cache) a RemoteClient for a backend.
type ClientFactory interface {
	ClientFor(backend *Backend) (RemoteClient, error)
}
