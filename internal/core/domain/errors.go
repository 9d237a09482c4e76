package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes callers need to tell apart.
// Wrap these with fmt.Errorf("%w: ...") to add detail.
var (
	// ErrFormat marks input that could not be parsed as a DNSKEY record
	// or carries values outside the record's field ranges.
	ErrFormat = errors.New("record format error")

	// ErrUnsupportedAlgorithm marks a DNSKEY algorithm or DS digest type
	// outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrAuthentication marks rejected registry credentials.
	ErrAuthentication = errors.New("registry authentication failed")

	// ErrNotFound marks a registry object that does not exist, such as a
	// retract against an absent delegation.
	ErrNotFound = errors.New("registry object not found")

	// ErrConflict marks a registry change that collides with a task
	// already in flight for the same object.
	ErrConflict = errors.New("conflicting registry task")

	// ErrTransient marks failures worth retrying later: timeouts,
	// connection errors, rate limiting, server-side 5xx responses.
	ErrTransient = errors.New("transient registry failure")
)

// ErrorKind maps an error to its taxonomy label for reports and logs.
// Unknown errors are labelled internal.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return "unsupported-algorithm"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrTransient):
		return "transient"
	}
	return "internal"
}

// ConflictError carries the reference of the task already holding the
// object, when the registry reports one.
type ConflictError struct {
	Owner   string
	KeyTag  uint16
	TaskRef string
}

func (e *ConflictError) Error() string {
	if e.TaskRef == "" {
		return fmt.Sprintf("change for %s key tag %d conflicts with a task already in flight", e.Owner, e.KeyTag)
	}
	return fmt.Sprintf("change for %s key tag %d conflicts with existing task %s", e.Owner, e.KeyTag, e.TaskRef)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// AmbiguousError wraps a failure that happened after a request may have
// reached the registry, so the change could have been accepted even
// though no task reference came back.
type AmbiguousError struct {
	Op  string
	Err error
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%s outcome unknown, request may have been accepted: %v", e.Op, e.Err)
}

func (e *AmbiguousError) Unwrap() error { return e.Err }

// IsAmbiguous reports whether the outcome of a registry request is
// unknown to the caller.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousError
	return errors.As(err, &ae)
}
