package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is returned when user input is rejected before any state
// is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// LoadFailure wraps an error returned while fetching a resource from the
// persistence boundary.
type LoadFailure struct {
	Resource string
	Err      error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("error loading %s: %v", e.Resource, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

// SaveFailure wraps an error returned while writing a resource to the
// persistence boundary.
type SaveFailure struct {
	Resource string
	Err      error
}

func (e *SaveFailure) Error() string {
	return fmt.Sprintf("error saving %s: %v", e.Resource, e.Err)
}

func (e *SaveFailure) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsLoad(err error) bool {
	var l *LoadFailure
	return errors.As(err, &l)
}

func IsSave(err error) bool {
	var s *SaveFailure
	return errors.As(err, &s)
}
