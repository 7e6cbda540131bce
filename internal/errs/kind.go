package errs

import "errors"

// Kind names the taxonomy bucket an error falls into, for metrics
// labels and HTTP mapping. Unknown errors report "internal".
func Kind(err error) string {
	var (
		validation *ValidationError
		capacity   *CapacityConflictError
		notFound   *NotFoundError
		state      *StateConflictError
		transient  *TransientError
	)
	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &capacity):
		return "capacity_conflict"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &state):
		return "state_conflict"
	case errors.As(err, &transient):
		return "transient"
	default:
		return "internal"
	}
}
