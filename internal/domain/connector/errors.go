package connector

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------

var (
	// ErrNetworkRetryable marks socket-level failures (timeout, DNS,
	// connection reset). Always safe to retry with backoff.
	ErrNetworkRetryable = errors.New("connector: network failure")

	// ErrProtocolRetryable marks 502/503/504 responses from the platform.
	// Retryable with the same policy as network failures.
	ErrProtocolRetryable = errors.New("connector: remote gateway failure")

	// ErrBindingNotFound indicates no binding matches a lookup.
	ErrBindingNotFound = errors.New("connector: binding not found")

	// ErrAmbiguousBinding indicates more than one binding matched a lookup.
	// Signals a corrupted correspondence; never retried automatically.
	ErrAmbiguousBinding = errors.New("connector: ambiguous binding")

	// ErrUnboundEntity indicates an export was requested for a local entity
	// that has no binding. Exports never create bindings.
	ErrUnboundEntity = errors.New("connector: entity has no binding")

	// ErrBackendNotFound indicates the backend connection does not exist.
	ErrBackendNotFound = errors.New("connector: backend not found")

	// ErrBackendDisabled indicates the backend is configured but not enabled.
	ErrBackendDisabled = errors.New("connector: backend disabled")

	// ErrInvalidBackend indicates the backend configuration is incomplete.
	ErrInvalidBackend = errors.New("connector: invalid backend configuration")

	// ErrUnknownEntityKind indicates no importer is registered for a kind.
	ErrUnknownEntityKind = errors.New("connector: unknown entity kind")
)

// RemoteError is a structured non-2xx response from the remote platform with
// an error body. Fatal: not retried automatically, surfaced to an operator.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error returns the string representation of the remote error.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("connector: remote error %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// MappingError indicates a referenced dependent entity could not be resolved
// while mapping a record. Fatal for the current record only; sibling records
// in the same batch are unaffected.
type MappingError struct {
	Kind       EntityKind
	ExternalID string
	Reason     string
}

// Error returns the string representation of the mapping error.
func (e *MappingError) Error() string {
	return fmt.Sprintf("connector: mapping failed for %s %s: %s", e.Kind, e.ExternalID, e.Reason)
}

// NewMappingError creates a MappingError for the given record.
func NewMappingError(kind EntityKind, externalID, reason string) *MappingError {
	return &MappingError{Kind: kind, ExternalID: externalID, Reason: reason}
}

// ConfigurationError is a fatal import failure an operator can fix by
// completing the backend configuration. The message carries a remediation
// hint and is shown verbatim on the failed job.
type ConfigurationError struct {
	Message string
}

// Error returns the remediation message.
func (e *ConfigurationError) Error() string {
	return "connector: " + e.Message
}

// NewConfigurationError creates a ConfigurationError with a formatted message.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// IsRetryable reports whether the error is transient and safe to re-attempt.
// Only network and protocol level failures qualify; structured remote errors,
// mapping errors and configuration errors are terminal.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNetworkRetryable) || errors.Is(err, ErrProtocolRetryable)
}
