package woocommerce

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
)

// Ensure Factory implements the client factory port
var _ connector.ClientFactory = (*Factory)(nil)

// Factory builds one client per backend and caches it so the rate limiter
// is shared across every caller hitting the same store. The cache entry is
// invalidated when the backend configuration changes.
type Factory struct {
	recorder Recorder

	mu      sync.Mutex
	clients map[uuid.UUID]*cachedClient
}

type cachedClient struct {
	client    *Client
	updatedAt int64
}

// NewFactory creates a client factory. The recorder is installed on every
// client the factory builds; nil disables recording.
func NewFactory(recorder Recorder) *Factory {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Factory{
		recorder: recorder,
		clients:  make(map[uuid.UUID]*cachedClient),
	}
}

// ClientFor returns the cached client for a backend, building it on first
// use or after a configuration change.
func (f *Factory) ClientFor(backend *connector.Backend) (connector.RemoteClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stamp := backend.UpdatedAt.UnixNano()
	if cached, ok := f.clients[backend.ID]; ok && cached.updatedAt == stamp {
		return cached.client, nil
	}

	client, err := NewClient(&Config{
		Location:       backend.Location,
		ConsumerKey:    backend.ConsumerKey,
		ConsumerSecret: backend.ConsumerSecret,
		Version:        backend.Version,
		VerifySSL:      backend.VerifySSL,
	}, WithRecorder(f.recorder))
	if err != nil {
		return nil, err
	}

	f.clients[backend.ID] = &cachedClient{client: client, updatedAt: stamp}
	return client, nil
}
