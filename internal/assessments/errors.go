package assessments

import "errors"

var (
	// ErrNotFound is returned when an assessment or version does not exist
	// within the requested tenant.
	ErrNotFound = errors.New("not found")
)
