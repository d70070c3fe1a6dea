package service

const (
	// ChangelogHeading starts a newly created changelog.
	ChangelogHeading = "# Changelog"
	// ChangelogDateLayout is the ISO-8601 calendar date used in section headers.
	ChangelogDateLayout = "2006-01-02"

	ChangelogFilePermissions = 0o644
)
