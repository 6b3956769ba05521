package scoring

import "errors"

var (
	// ErrNotSubmitted is returned when scoring is requested for an assessment
	// that has no submission timestamp. Raised before any computation or write.
	ErrNotSubmitted = errors.New("assessment not submitted")

	// ErrNoSnapshot is returned by repos when an assessment has no result snapshot.
	ErrNoSnapshot = errors.New("no result snapshot")
)
