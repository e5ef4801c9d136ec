package reportcache

import (
	"errors"
	"fmt"
)

// ComputeError reports a failed report computation: the enumeration call
// failed or the overall computation timed out. The cache is left unset, so a
// retry recomputes from scratch. Per-item detail failures are not surfaced
// this way; they are logged and the item is excluded from the aggregate.
type ComputeError struct {
	Kind  Kind
	Owner string
	Err   error
}

// Error implements the error interface.
func (e *ComputeError) Error() string {
	return fmt.Sprintf("compute %s report for owner %q: %v", e.Kind, e.Owner, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ComputeError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a report computation failure that is
// expected to succeed on retry once the source recovers.
func IsTransient(err error) bool {
	var ce *ComputeError
	return errors.As(err, &ce)
}

// ConfigError represents a service configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
