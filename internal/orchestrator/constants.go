package orchestrator

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Network timeout and retry settings, overridable through the environment.
// Test binaries get short defaults. Interactive sessions have no deadline.
var (
	// NetworkStepTimeout bounds a single fetch or push attempt.
	NetworkStepTimeout = fromEnv("RELEASE_HELPER_NETWORK_TIMEOUT", time.ParseDuration, 2*time.Minute, 2*time.Second)
	// DefaultRetryCount is the number of retries after a failed network step.
	DefaultRetryCount = fromEnv("RELEASE_HELPER_RETRY_COUNT", parseCount, uint64(3), uint64(1))
	// DefaultRetryDelay is the initial exponential backoff delay.
	DefaultRetryDelay = fromEnv("RELEASE_HELPER_RETRY_DELAY", time.ParseDuration, 1*time.Second, 10*time.Millisecond)
)

func parseCount(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// fromEnv reads name with parse, falling back to prod, or test when running
// under go test. Unparsable values are ignored.
func fromEnv[T any](name string, parse func(string) (T, error), prod, test T) T {
	if raw := os.Getenv(name); raw != "" {
		if v, err := parse(raw); err == nil {
			return v
		}
	}
	if runningTests() {
		return test
	}
	return prod
}

func runningTests() bool {
	if os.Getenv("GO_TEST") == "true" || os.Getenv("TEST_MODE") == "true" {
		return true
	}
	for _, arg := range os.Args {
		if strings.HasSuffix(arg, ".test") || strings.Contains(arg, "-test.") {
			return true
		}
	}
	return false
}
