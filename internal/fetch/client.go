package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// NewClient builds a retryable HTTP client with the given retry budget and
// backoff bounds. retryMax is the number of retries after the first attempt;
// 0 disables request-level retries while keeping the client's policy
// classification (5xx and transport errors are retryable, other 4xx are not).
// When base is non-nil it replaces the default underlying http.Client.
func NewClient(logger *slog.Logger, retryMax int, waitMin, waitMax time.Duration, base *http.Client) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = retryMax
	c.RetryWaitMin = waitMin
	c.RetryWaitMax = waitMax
	if logger != nil {
		c.Logger = levelLogger{log: logger}
	} else {
		c.Logger = nil
	}
	if base != nil {
		c.HTTPClient = base
	}
	return c
}

// levelLogger adapts slog to retryablehttp's LeveledLogger interface.
type levelLogger struct {
	log *slog.Logger
}

func (l levelLogger) Error(msg string, keysAndValues ...any) { l.log.Error(msg, keysAndValues...) }
func (l levelLogger) Warn(msg string, keysAndValues ...any)  { l.log.Warn(msg, keysAndValues...) }
func (l levelLogger) Info(msg string, keysAndValues ...any)  { l.log.Debug(msg, keysAndValues...) }
func (l levelLogger) Debug(msg string, keysAndValues ...any) { l.log.Debug(msg, keysAndValues...) }

// StatusError is returned by GetJSON for non-200 responses, preserving the
// status code so callers can distinguish a missing resource from a failing
// remote.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("get %s: unexpected status %s", e.URL, e.Status)
}

// GetJSON performs a GET against url and decodes the JSON response body into v.
// Non-200 responses yield a *StatusError.
func GetJSON(ctx context.Context, client *retryablehttp.Client, url string, v any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}
