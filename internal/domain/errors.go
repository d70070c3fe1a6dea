package domain

import "errors"

var (
	// ErrMalformedVersion reports tag text that is not MAJOR.MINOR.PATCH.
	ErrMalformedVersion = errors.New("malformed version")
	// ErrSyncUnavailable reports that remote commit lists could not be obtained.
	ErrSyncUnavailable = errors.New("remote synchronization state unavailable")
	// ErrNoTrackingBranch reports a branch without a configured upstream.
	ErrNoTrackingBranch = errors.New("no tracking branch configured")
)
