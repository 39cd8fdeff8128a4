package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a task id does not reference a stored task.
	ErrNotFound = errors.New("task not found")
	// ErrForbidden is returned when the acting role is not allowed to perform
	// the requested operation.
	ErrForbidden = errors.New("operation not permitted for role")
)

// ValidationError reports a malformed or missing field in a create or update
// payload. It is raised before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// AsValidation unwraps err into a ValidationError when possible.
func AsValidation(err error) (ValidationError, bool) {
	var ve ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
