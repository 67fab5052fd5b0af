package orchestrator

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Timeouts and retry policy. Each can be overridden through the environment
// and shrinks automatically under `go test`.
var (
	// DefaultWorkflowTimeout bounds branch and clone workflows.
	DefaultWorkflowTimeout = getTimeoutOrDefault("WORKFLOW_TIMEOUT", 10*time.Minute, 5*time.Second)
	// ReleaseWorkflowTimeout bounds a release, excluding the confirmation prompt.
	ReleaseWorkflowTimeout = getTimeoutOrDefault("RELEASE_WORKFLOW_TIMEOUT", 30*time.Minute, 10*time.Second)
	RollbackTimeout        = getTimeoutOrDefault("ROLLBACK_TIMEOUT", 10*time.Minute, 2*time.Second)
	DefaultRetryCount      = uint64(getRetryCountOrDefault("RETRY_COUNT", 3, 1))
	DefaultRetryDelay      = getTimeoutOrDefault("RETRY_DELAY", 1*time.Second, 10*time.Millisecond)
)

func isTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.HasSuffix(arg, ".test") || strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return os.Getenv("GO_TEST") == "true"
}

func getTimeoutOrDefault(envVar string, prodDefault, testDefault time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}

func getRetryCountOrDefault(envVar string, prodDefault, testDefault int) int {
	if env := os.Getenv(envVar); env != "" {
		if count, err := strconv.Atoi(env); err == nil && count >= 0 {
			return count
		}
	}
	if isTestEnvironment() {
		return testDefault
	}
	return prodDefault
}
