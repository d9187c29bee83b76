package ranges

import "errors"

// Sentinel errors for package ranges.
var (
	// Range expression errors
	ErrMalformedRange = errors.New("malformed range expression")

	// Template errors
	ErrNoWildcard = errors.New("template has no wildcard run")
)
