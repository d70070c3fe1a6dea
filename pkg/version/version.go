package version

import "fmt"

// Set at build time with -ldflags "-X".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Summary is the one-line version shown by --version.
func Summary() string {
	if CommitHash == "" || CommitHash == "unknown" {
		return Version
	}
	short := CommitHash
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, short)
}
