package mcenv

import (
	"fmt"
	"net/http"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | int64 | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("mcenv: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("mcenv: %s must not be empty", name))
	}
}

// Option configures a Manager during construction via NewManager.
// Each With* function returns an Option that sets a specific field.
//
// Several With* functions panic on invalid input (empty URLs, non-positive
// counts and durations). These panics are intentional: option values are
// typically compile-time constants or package-level variables, so an invalid
// value indicates a programmer error rather than a runtime condition. The
// pattern mirrors [regexp.MustCompile], failing fast during initialization
// instead of returning errors that would be universally fatal anyway.
type Option func(*managerConfig)

// WithRootDir sets the directory holding everything the manager persists:
// the instance registry, installed instances and cached Java runtimes.
//
// Default: ".mcenv" under the user's home directory.
//
// Panics if dir is empty.
func WithRootDir(dir string) Option {
	requireNonEmpty("root directory", dir)
	return func(c *managerConfig) {
		c.RootDir = dir
	}
}

// WithManifestURL sets the location of the version manifest document.
// Panics if url is empty.
func WithManifestURL(url string) Option {
	requireNonEmpty("manifest URL", url)
	return func(c *managerConfig) {
		c.ManifestURL = url
	}
}

// WithRuntimeAPIURL sets the base URL of the Java runtime discovery API.
// Panics if url is empty.
func WithRuntimeAPIURL(url string) Option {
	requireNonEmpty("runtime API URL", url)
	return func(c *managerConfig) {
		c.RuntimeAPIURL = url
	}
}

// WithUploadURL sets the crash-report paste service endpoint.
// Panics if url is empty.
func WithUploadURL(url string) Option {
	requireNonEmpty("upload URL", url)
	return func(c *managerConfig) {
		c.UploadURL = url
	}
}

// WithMaxConcurrentDownloads bounds artifact transfers in flight at once,
// across all concurrent installs on one manager. Installs past the bound
// wait their turn rather than fail.
//
// Default: 3.
//
// Panics if n <= 0.
func WithMaxConcurrentDownloads(n int) Option {
	requirePositive("max concurrent downloads", n)
	return func(c *managerConfig) {
		c.MaxConcurrentDownloads = int64(n)
	}
}

// WithRetryWait bounds the backoff between HTTP retry attempts, for both
// metadata requests and artifact transfers.
//
// Default: 500ms to 5s.
//
// Panics if either duration is <= 0 or max < min.
func WithRetryWait(min, max time.Duration) Option {
	requirePositive("retry wait minimum", min)
	requirePositive("retry wait maximum", max)
	if max < min {
		panic(fmt.Sprintf("mcenv: retry wait maximum must not be below the minimum, got %v < %v", max, min))
	}
	return func(c *managerConfig) {
		c.RetryWaitMin = min
		c.RetryWaitMax = max
	}
}

// WithMetadataTTL sets how long version metadata and runtime discovery
// responses are served from memory before being fetched again. The version
// manifest itself is also cached for this duration; use Manager.Refresh to
// discard it early.
//
// Default: 10 minutes.
//
// Panics if d <= 0.
func WithMetadataTTL(d time.Duration) Option {
	requirePositive("metadata TTL", d)
	return func(c *managerConfig) {
		c.MetadataTTL = d
	}
}

// WithTerminationGrace sets how long Terminate waits after the polite stop
// signal before forcing the server process to exit. Set it generously for
// large worlds; the save-on-stop can be slow.
//
// Default: 10 seconds.
//
// Panics if d <= 0.
func WithTerminationGrace(d time.Duration) Option {
	requirePositive("termination grace", d)
	return func(c *managerConfig) {
		c.TerminationGrace = d
	}
}

// WithLineBuffer sets the capacity of a launched server's output channel.
// A larger buffer absorbs output bursts from chatty servers when the
// consumer falls behind momentarily; lines are never dropped either way.
//
// Default: 256.
//
// Panics if n <= 0.
func WithLineBuffer(n int) Option {
	requirePositive("line buffer", n)
	return func(c *managerConfig) {
		c.LineBuffer = n
	}
}

// WithHTTPClient replaces the underlying transport for every remote call:
// manifest and metadata fetches, artifact downloads and crash-report
// uploads. Retry behavior is layered on top of the given client.
//
// Panics if client is nil.
func WithHTTPClient(client *http.Client) Option {
	if client == nil {
		panic("mcenv: HTTP client must not be nil")
	}
	return func(c *managerConfig) {
		c.HTTPClient = client
	}
}
