// Package queue runs import jobs asynchronously on top of the job store.
// Enqueued jobs survive restarts; workers claim them with row locks so
// several processes can drain the same table.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wooconnect/backend/internal/domain/connector"
)

const (
	// DefaultMaxRetries caps automatic re-attempts when the enqueuer does not
	// pass an explicit limit.
	DefaultMaxRetries = 3

	// DefaultChannel groups jobs that were enqueued without a channel.
	DefaultChannel = "import"
)

// Ensure StoreQueue implements connector.JobQueue
var _ connector.JobQueue = (*StoreQueue)(nil)

// StoreQueue persists enqueued jobs through a JobStore.
type StoreQueue struct {
	store connector.JobStore
	now   func() time.Time
}

// NewStoreQueue creates a new StoreQueue.
func NewStoreQueue(store connector.JobStore) *StoreQueue {
	return &StoreQueue{store: store, now: time.Now}
}

// Enqueue persists a pending job. The job becomes due immediately.
func (q *StoreQueue) Enqueue(ctx context.Context, job connector.ImportJob, opts connector.JobOptions) error {
	maxRetries := DefaultMaxRetries
	if opts.MaxRetries != nil {
		maxRetries = *opts.MaxRetries
	}
	channel := opts.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	now := q.now()
	return q.store.Save(ctx, &connector.Job{
		ID:         uuid.New(),
		BackendID:  job.BackendID,
		EntityKind: job.EntityKind,
		ExternalID: job.ExternalID,
		Force:      job.Force,
		Channel:    channel,
		Priority:   opts.Priority,
		MaxRetries: maxRetries,
		State:      connector.JobStatePending,
		RunAt:      now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}
