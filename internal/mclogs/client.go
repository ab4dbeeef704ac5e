// Package mclogs uploads crash reports and server logs to an mclo.gs style
// paste service and returns the share URL.
package mclogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mcenv/mcenv/internal/sentinel"
)

// ErrUploadFailed means the paste service did not accept the upload. Callers
// report it and move on; a failed upload never invalidates the crash report
// on disk.
const ErrUploadFailed = sentinel.Error("log upload failed")

// maxContentBytes caps the uploaded payload. The service truncates anything
// beyond its own limit anyway; capping here avoids shipping hundreds of
// megabytes of log over the wire first.
const maxContentBytes = 10 << 20

// Config holds the configuration for a Client.
type Config struct {
	// URL is the upload endpoint, e.g. https://api.mclo.gs/1/log.
	URL string

	// Client performs the upload requests.
	Client *retryablehttp.Client

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("upload URL must not be empty"))
	}
	if c.Client == nil {
		errs = append(errs, errors.New("http client must not be nil"))
	}
	return errors.Join(errs...)
}

// Client uploads log files. It is safe for concurrent use.
type Client struct {
	url    string
	client *retryablehttp.Client
	log    *slog.Logger
}

// New creates a Client. It performs no I/O.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid mclogs config: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{url: cfg.URL, client: cfg.Client, log: log}, nil
}

// response mirrors the service's JSON reply.
type response struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// Upload posts the file at path and returns the share URL.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read log %s: %w", path, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("log %s is empty: %w", path, ErrUploadFailed)
	}
	if len(data) > maxContentBytes {
		data = data[:maxContentBytes]
	}

	form := url.Values{}
	form.Set("content", string(data))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w: %w", path, ErrUploadFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload %s: unexpected status %s: %w", path, resp.Status, ErrUploadFailed)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decode upload response: %w: %w", ErrUploadFailed, err)
	}
	if !r.Success || r.URL == "" {
		msg := r.Error
		if msg == "" {
			msg = "service reported failure"
		}
		return "", fmt.Errorf("upload %s: %s: %w", path, msg, ErrUploadFailed)
	}

	c.log.Debug("log uploaded", "path", path, "url", r.URL)

	return r.URL, nil
}
