package domain

import "time"

// Release holds all metadata related to a release.
type Release struct {
	// Previous and PreviousTag are empty for the first release.
	Previous    *Version
	PreviousTag string
	Version     *Version
	Kind        BumpKind
	TagName     string
	Changes     []string
	Date        time.Time
	// Notes is the changelog section written for this release, if any.
	Notes string
}
