package recommendations

import "errors"

var (
	// ErrMissingPrerequisite is returned when ranking is requested for an
	// assessment that has never been scored: run scoring first.
	ErrMissingPrerequisite = errors.New("assessment has no scored result")
)
