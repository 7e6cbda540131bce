// Package errs defines the structured error kinds the ordering and
// reservation flow returns. Handlers map them onto HTTP statuses so the
// client can tell "fix and resubmit" apart from "try again later".
package errs

import "fmt"

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// CapacityConflictError reports a full table bucket for the requested
// slot, carrying up to three alternative times with remaining capacity.
type CapacityConflictError struct {
	Date         string
	Time         string
	Alternatives []string
}

func (e *CapacityConflictError) Error() string {
	return fmt.Sprintf("no tables available for %s %s", e.Date, e.Time)
}

// NotFoundError reports an update targeting a nonexistent record.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// StateConflictError reports a status transition not present in the
// entity's transition table.
type StateConflictError struct {
	Entity string
	From   string
	To     string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
}

// TransientError wraps a persistence or timeout failure. The whole
// operation is safe to retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError for operation op.
func Transient(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}
