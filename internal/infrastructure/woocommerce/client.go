package woocommerce

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure Client implements the remote client port
var _ connector.RemoteClient = (*Client)(nil)

// resourcePaths maps entity kinds to REST collection paths.
var resourcePaths = map[connector.EntityKind]string{
	connector.EntityKindCategory: "products/categories",
	connector.EntityKindProduct:  "products",
	connector.EntityKindCustomer: "customers",
	connector.EntityKindOrder:    "orders",
	connector.EntityKindCarrier:  "shipping_methods",
}

// Client talks to one WooCommerce store. Requests are paced by a rate
// limiter and bounded by the configured timeout; transport failures are
// classified into the connector error taxonomy before they leave this
// package.
type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
	recorder   Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithRecorder installs a round-trip recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the configured store.
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport
	if !config.VerifySSL {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.timeout(),
			Transport: transport,
		},
		limiter:  rate.NewLimiter(rate.Limit(config.requestsPerSecond()), 1),
		recorder: NopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// RemoteClient operations
// ---------------------------------------------------------------------------

// Search returns one page of records matching the params. Only the id and
// the summary document come back; callers Read the full record separately.
func (c *Client) Search(ctx context.Context, kind connector.EntityKind, params connector.SearchParams) ([]connector.RemoteSummary, error) {
	path, err := resourcePath(kind)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = connector.SearchPageSize
	}
	query.Set("per_page", strconv.Itoa(perPage))
	query.Set("offset", strconv.Itoa(params.Offset))
	if params.UpdatedFrom != nil {
		query.Set("modified_after", params.UpdatedFrom.Format(connector.RemoteDatetimeFormat))
	}
	if params.UpdatedTo != nil {
		query.Set("modified_before", params.UpdatedTo.Format(connector.RemoteDatetimeFormat))
	}
	for key, value := range params.Filters {
		query.Set(key, value)
	}

	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	var records []connector.Payload
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("woocommerce: parse %s list: %w", kind, err)
	}

	out := make([]connector.RemoteSummary, 0, len(records))
	for _, record := range records {
		id := record.ID("id")
		if id == "" {
			continue
		}
		out = append(out, connector.RemoteSummary{ExternalID: id, Summary: record})
	}
	return out, nil
}

// Read returns the full payload of one record.
func (c *Client) Read(ctx context.Context, kind connector.EntityKind, externalID string) (connector.Payload, error) {
	path, err := resourcePath(kind)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, path+"/"+url.PathEscape(externalID), nil, nil)
	if err != nil {
		return nil, err
	}

	var record connector.Payload
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("woocommerce: parse %s %s: %w", kind, externalID, err)
	}
	return record, nil
}

// Create creates a record on the store and returns its id.
func (c *Client) Create(ctx context.Context, kind connector.EntityKind, data connector.Payload) (string, error) {
	path, err := resourcePath(kind)
	if err != nil {
		return "", err
	}

	body, err := c.do(ctx, http.MethodPost, path, nil, data)
	if err != nil {
		return "", err
	}

	var record connector.Payload
	if err := json.Unmarshal(body, &record); err != nil {
		return "", fmt.Errorf("woocommerce: parse create response: %w", err)
	}
	id := record.ID("id")
	if id == "" {
		return "", fmt.Errorf("woocommerce: create %s returned no id", kind)
	}
	return id, nil
}

// Update updates a record on the store.
func (c *Client) Update(ctx context.Context, kind connector.EntityKind, externalID string, data connector.Payload) error {
	path, err := resourcePath(kind)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(externalID), nil, data)
	return err
}

// FetchBinary downloads an asset by absolute URL. Assets the store reports
// as gone yield (nil, nil) so the caller can try the next candidate.
func (c *Client) FetchBinary(ctx context.Context, assetURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: build asset request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(err)
		c.recorder.Record(Exchange{Method: http.MethodGet, URL: assetURL, Duration: time.Since(start), Err: err})
		return nil, err
	}
	defer resp.Body.Close()

	c.recorder.Record(Exchange{Method: http.MethodGet, URL: assetURL, StatusCode: resp.StatusCode, Duration: time.Since(start)})

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, fmt.Errorf("%w: read asset body: %v", connector.ErrNetworkRetryable, err)
		}
		return data, nil
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusGone:
		return nil, nil
	default:
		return nil, classifyStatus(resp.StatusCode, nil)
	}
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// do performs one API round-trip and returns the response body. Non-2xx
// responses come back as classified errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload connector.Payload) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.endpoint(path, query)

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("woocommerce: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("woocommerce: build request: %w", err)
	}
	req.SetBasicAuth(c.config.ConsumerKey, c.config.ConsumerSecret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(err)
		c.recorder.Record(Exchange{Method: method, URL: endpoint, Duration: time.Since(start), Err: err})
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	c.recorder.Record(Exchange{Method: method, URL: endpoint, StatusCode: resp.StatusCode, Duration: time.Since(start)})
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response: %v", connector.ErrNetworkRetryable, readErr)
	}

	if resp.StatusCode >= 400 {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	base := strings.TrimRight(c.config.Location, "/")
	endpoint := fmt.Sprintf("%s/wp-json/%s/%s", base, c.config.version(), path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func resourcePath(kind connector.EntityKind) (string, error) {
	path, ok := resourcePaths[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", connector.ErrUnknownEntityKind, kind)
	}
	return path, nil
}

// ---------------------------------------------------------------------------
// Error classification
// ---------------------------------------------------------------------------

// classifyTransportError maps socket-level failures (timeouts, DNS errors,
// resets) onto the retryable network sentinel. Everything http.Client.Do
// returns is transport-level by definition.
func classifyTransportError(err error) error {
	return fmt.Errorf("%w: %v", connector.ErrNetworkRetryable, err)
}

// classifyStatus maps a non-2xx response to the error taxonomy: gateway
// failures are retryable, everything else is a structured terminal error.
func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d", connector.ErrProtocolRetryable, status)
	}

	remote := &connector.RemoteError{StatusCode: status}
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		remote.Code = parsed.Code
		remote.Message = parsed.Message
	} else {
		remote.Message = http.StatusText(status)
	}
	return remote
}
