package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// JobQueue port
// ---------------------------------------------------------------------------

// ImportJob is one unit of work: import one remote record of one kind.
// Idempotent under the queue's at-least-once execution semantics; re-running
// the same job converges to the same local state.
type ImportJob struct {
	// BackendID is the backend connection to import from.
	BackendID uuid.UUID
	// EntityKind is the kind of the record.
	EntityKind EntityKind
	// ExternalID is the remote id of the record.
	ExternalID string
	// Force re-imports the record even when a binding already exists.
	Force bool
}

// JobOptions tune how the queue treats a job.
type JobOptions struct {
	// Priority orders execution; lower runs first.
	Priority int
	// MaxRetries caps automatic re-attempts of retryable failures. Nil means
	// the queue default. Order imports pass an explicit zero so duplicate
	// order creation never happens without operator visibility.
	MaxRetries *int
	// Channel groups jobs for operator filtering.
	Channel string
}

// MaxRetries returns a pointer for use in JobOptions literals.
func MaxRetries(n int) *int { return &n }

// JobQueue dispatches import jobs for asynchronous execution. The queue must
// retry transient failures with exponential backoff, record terminal failures
// visibly, and record skips as completions with a note rather than failures.
type JobQueue interface {
	Enqueue(ctx context.Context, job ImportJob, opts JobOptions) error
}

// JobState is the lifecycle state of a queued job.
type JobState string

const (
	// JobStatePending marks a job waiting for execution.
	JobStatePending JobState = "pending"
	// JobStateRunning marks a job claimed by a worker.
	JobStateRunning JobState = "running"
	// JobStateDone marks a completed job. Skipped imports are done with a
	// note, never failed.
	JobStateDone JobState = "done"
	// JobStateFailed marks a terminally failed job awaiting an operator.
	JobStateFailed JobState = "failed"
)

// Job is one queued import with its execution bookkeeping.
type Job struct {
	ID         uuid.UUID
	BackendID  uuid.UUID
	EntityKind EntityKind
	ExternalID string
	Force      bool
	Channel    string
	Priority   int
	MaxRetries int
	Attempts   int
	State      JobState
	// Note carries the skip reason of a done job or the failure message of a
	// failed one.
	Note string
	// RunAt is the earliest execution time; retries push it into the future.
	RunAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobStore persists queued jobs.
type JobStore interface {
	// Save creates or updates a job.
	Save(ctx context.Context, job *Job) error

	// ClaimDue atomically moves up to limit due pending jobs to running and
	// returns them, ordered by priority then age.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]Job, error)

	// FindByID returns a job by id.
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)

	// FindByState lists jobs in a state for the admin surface, newest first.
	FindByState(ctx context.Context, state JobState, limit, offset int) ([]Job, error)
}
