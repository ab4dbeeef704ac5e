package core

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ManagerConfig holds configuration for Manager instances.
//
// Concurrency contract: all fields are immutable after construction via
// NewManagerWithConfig. Collaborators built from this configuration read it
// without synchronization, relying on this guarantee.
type ManagerConfig struct {
	// RootDir is the directory holding everything the manager persists:
	// the instance registry, installed instances and cached Java runtimes.
	RootDir string

	// ManifestURL is the location of the version manifest document.
	ManifestURL string

	// RuntimeAPIURL is the base URL of the Java runtime discovery API.
	RuntimeAPIURL string

	// UploadURL is the crash-report paste service endpoint.
	UploadURL string

	// MaxConcurrentDownloads bounds artifact transfers in flight at once,
	// across all concurrent installs. Default: 3.
	MaxConcurrentDownloads int64

	// RetryWaitMin and RetryWaitMax bound the backoff between HTTP retry
	// attempts, for both metadata requests and artifact transfers.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// MetadataTTL is how long per-version metadata and runtime discovery
	// responses are served from memory before being fetched again.
	// Default: 10 minutes.
	MetadataTTL time.Duration

	// TerminationGrace is how long Terminate waits after the polite stop
	// signal before forcing the server process to exit. Default: 10 seconds.
	TerminationGrace time.Duration

	// LineBuffer is the capacity of a launched server's output channel.
	// 0 means the supervisor's default.
	LineBuffer int

	// HTTPClient optionally replaces the underlying transport for every
	// remote call. Nil means a default client. Used by tests to point the
	// manager at fixture servers.
	HTTPClient *http.Client
}

// Validate checks all ManagerConfig invariants and returns an error
// describing every violation found, joined so callers can fix all problems
// in a single pass.
//
// Validate is called by NewManagerWithConfig, which panics on error since
// invalid configuration is a programmer error.
func (c ManagerConfig) Validate() error {
	var errs []error

	if c.RootDir == "" {
		errs = append(errs, errors.New("root directory must not be empty"))
	}
	if c.ManifestURL == "" {
		errs = append(errs, errors.New("manifest URL must not be empty"))
	}
	if c.RuntimeAPIURL == "" {
		errs = append(errs, errors.New("runtime API URL must not be empty"))
	}
	if c.UploadURL == "" {
		errs = append(errs, errors.New("upload URL must not be empty"))
	}
	if c.MaxConcurrentDownloads <= 0 {
		errs = append(errs, fmt.Errorf("max concurrent downloads must be greater than 0, got %d", c.MaxConcurrentDownloads))
	}
	if c.RetryWaitMin <= 0 {
		errs = append(errs, fmt.Errorf("retry wait minimum must be greater than 0, got %s", c.RetryWaitMin))
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		errs = append(errs, fmt.Errorf("retry wait maximum %s must not be below the minimum %s", c.RetryWaitMax, c.RetryWaitMin))
	}
	if c.MetadataTTL <= 0 {
		errs = append(errs, fmt.Errorf("metadata TTL must be greater than 0, got %s", c.MetadataTTL))
	}
	if c.TerminationGrace <= 0 {
		errs = append(errs, fmt.Errorf("termination grace must be greater than 0, got %s", c.TerminationGrace))
	}
	if c.LineBuffer < 0 {
		errs = append(errs, fmt.Errorf("line buffer must not be negative, got %d", c.LineBuffer))
	}

	return errors.Join(errs...)
}
