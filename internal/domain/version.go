package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// versionPattern accepts exactly three dot-separated non-negative integers
// without leading zeros.
var versionPattern = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)$`)

// BumpKind selects which component of a version is incremented.
type BumpKind int

const (
	BumpMajor BumpKind = iota + 1
	BumpMinor
	BumpPatch
)

// String returns the lower-case name of the bump kind.
func (k BumpKind) String() string {
	switch k {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	default:
		return "unknown"
	}
}

// ParseBumpKind accepts major/minor/patch or the menu numbers 1/2/3.
func ParseBumpKind(s string) (BumpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "1":
		return BumpMajor, nil
	case "minor", "2":
		return BumpMinor, nil
	case "patch", "3":
		return BumpPatch, nil
	default:
		return 0, fmt.Errorf("invalid bump kind %q (expected major, minor or patch)", s)
	}
}

// Ordering is the result of comparing two versions.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// String returns LESS, EQUAL or GREATER.
func (o Ordering) String() string {
	switch o {
	case Less:
		return "LESS"
	case Equal:
		return "EQUAL"
	default:
		return "GREATER"
	}
}

// Version wraps semver.Version restricted to plain MAJOR.MINOR.PATCH.
type Version struct {
	*semver.Version
}

// ParseVersion parses text of the exact form MAJOR.MINOR.PATCH.
func ParseVersion(s string) (*Version, error) {
	if !versionPattern.MatchString(s) {
		return nil, fmt.Errorf("%w: %q (expected MAJOR.MINOR.PATCH)", ErrMalformedVersion, s)
	}
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedVersion, s, err)
	}
	return &Version{v}, nil
}

// ParseTag strips prefix from a tag name and parses the remainder.
func ParseTag(tag, prefix string) (*Version, error) {
	rest, ok := strings.CutPrefix(tag, prefix)
	if !ok {
		return nil, fmt.Errorf("%w: tag %q lacks prefix %q", ErrMalformedVersion, tag, prefix)
	}
	return ParseVersion(rest)
}

// InitialVersion is the version assumed when a repository has no version tags.
func InitialVersion() *Version {
	return &Version{semver.New(0, 0, 0, "", "")}
}

// Bump returns a new version with the selected component incremented. A kind
// that is not one of the Bump constants, including the zero value, bumps the
// patch component, the smallest possible release.
func (v *Version) Bump(kind BumpKind) *Version {
	switch kind {
	case BumpMajor:
		return v.BumpMajor()
	case BumpMinor:
		return v.BumpMinor()
	}
	return v.BumpPatch()
}

// BumpMajor increments the major version.
func (v *Version) BumpMajor() *Version {
	newVer := v.IncMajor()
	return &Version{&newVer}
}

// BumpMinor increments the minor version.
func (v *Version) BumpMinor() *Version {
	newVer := v.IncMinor()
	return &Version{&newVer}
}

// BumpPatch increments the patch version.
func (v *Version) BumpPatch() *Version {
	newVer := v.IncPatch()
	return &Version{&newVer}
}

// Compare orders two versions by (major, minor, patch).
func (v *Version) Compare(other *Version) Ordering {
	return Ordering(v.Version.Compare(other.Version))
}

// Equal reports whether both versions have the same components.
func (v *Version) Equal(other *Version) bool {
	return v.Compare(other) == Equal
}

// String returns MAJOR.MINOR.PATCH.
func (v *Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// Tag returns the tag name for this version.
func (v *Version) Tag(prefix string) string {
	return prefix + v.String()
}

// LatestVersion returns the highest version among tags. Tags that do not
// parse are returned in skipped. found is false when no tag parses.
func LatestVersion(tags []string, prefix string) (latest *Version, skipped []string, found bool) {
	for _, tag := range tags {
		v, err := ParseTag(tag, prefix)
		if err != nil {
			skipped = append(skipped, tag)
			continue
		}
		if latest == nil || v.Compare(latest) == Greater {
			latest = v
		}
	}
	return latest, skipped, latest != nil
}
