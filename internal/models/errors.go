package models

import "fmt"

// ValidationError marks deterministic input errors: malformed ids, empty
// resource lists, unsupported recurrence frequencies. The HTTP layer maps it
// to a 400 response; no retry applies.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError is raised when a referenced event id has no stored document.
// The HTTP layer maps it to a 404 response.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
