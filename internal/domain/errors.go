package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a job id does not exist
var ErrNotFound = errors.New("job not found")

// ValidationError lists every rule a job violates
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// ConflictError reports that a job with the same title, company and location
// already exists
type ConflictError struct {
	ExistingID JobID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("job already exists: %s", e.ExistingID)
}

// IsConflict reports whether err is a ConflictError and returns it
func IsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// IsValidation reports whether err is a ValidationError and returns it
func IsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
