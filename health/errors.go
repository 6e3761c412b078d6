package health

import "errors"

var (
	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNilSource indicates a reporter was built without a snapshot source.
	ErrNilSource = errors.New("health: nil snapshot source")
)
