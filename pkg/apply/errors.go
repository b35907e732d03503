package apply

import "errors"

var (
	// ErrInvalidTargetURL is returned for URLs that do not look like a job posting.
	ErrInvalidTargetURL = errors.New("apply: invalid target url")

	// ErrAuthentication wraps sign-in failures.
	ErrAuthentication = errors.New("apply: authentication failed")

	// ErrElementNotFound is returned when a required control is absent.
	ErrElementNotFound = errors.New("apply: required element not found")

	// ErrUnknownPageKind marks a page no handler recognises. It is not fatal.
	ErrUnknownPageKind = errors.New("apply: unknown page kind")

	// ErrIterationBoundExceeded is returned when the flow never reaches submit.
	ErrIterationBoundExceeded = errors.New("apply: iteration bound exceeded")
)
