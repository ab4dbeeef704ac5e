package fetch

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/semaphore"

	"github.com/mcenv/mcenv/internal/fileutil"
	"github.com/mcenv/mcenv/internal/sentinel"
)

// ErrChecksumMismatch is returned when a downloaded artifact's digest does
// not match the expected checksum after the automatic retry.
const ErrChecksumMismatch = sentinel.Error("artifact checksum mismatch")

// ErrTransient marks network failures that were retried and still failed.
// It is never returned for a retry that succeeded.
const ErrTransient = sentinel.Error("transient network failure")

// ProgressFunc receives download progress. written is a monotonically
// increasing byte count for the whole fetch, including across the automatic
// retry; total is the expected size, or 0 when unknown.
type ProgressFunc func(written, total int64)

// Request describes one artifact download.
type Request struct {
	// URL is the artifact location.
	URL string

	// Dest is the final path. The artifact appears here only after its
	// digest has been verified; intermediate state lives in a temp file
	// in the same directory.
	Dest string

	// Checksum is the expected content digest.
	Checksum Checksum

	// Size is an optional expected byte count used for progress totals
	// when the response carries no Content-Length.
	Size int64

	// Progress, when non-nil, is invoked as bytes arrive.
	Progress ProgressFunc
}

// validate collects all violations so a caller sees every problem at once.
func (r Request) validate() error {
	var errs []error
	if r.URL == "" {
		errs = append(errs, errors.New("url must not be empty"))
	}
	if r.Dest == "" {
		errs = append(errs, errors.New("destination path must not be empty"))
	}
	if err := r.Checksum.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Config holds the configuration for a Fetcher.
type Config struct {
	// Client performs the HTTP requests. It should have request-level
	// retries disabled (RetryMax 0): the Fetcher owns the retry decision
	// so the single-retry budget covers the entire transfer, digest
	// verification included.
	Client *retryablehttp.Client

	// MaxConcurrent bounds the number of transfers in flight at once.
	MaxConcurrent int64

	// RetryWait is how long to back off before the single automatic retry.
	RetryWait time.Duration

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) validate() error {
	var errs []error
	if c.Client == nil {
		errs = append(errs, errors.New("http client must not be nil"))
	}
	if c.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("max concurrent transfers must be positive"))
	}
	if c.RetryWait <= 0 {
		errs = append(errs, errors.New("retry wait must be positive"))
	}
	return errors.Join(errs...)
}

// Fetcher downloads artifacts with digest verification and bounded
// concurrency. It is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client    *retryablehttp.Client
	sem       *semaphore.Weighted
	retryWait time.Duration
	log       *slog.Logger
}

// New creates a Fetcher. It performs no I/O.
func New(cfg Config) (*Fetcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid fetcher config: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		client:    cfg.Client,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
		retryWait: cfg.RetryWait,
		log:       log,
	}, nil
}

// Fetch downloads req.URL to req.Dest. The body streams to a temp file next
// to the destination while the digest accumulates; only a verified file is
// renamed into place. A transient failure or digest mismatch is retried once
// after RetryWait; 4xx statuses fail immediately. On failure or cancellation
// the temp file is removed and nothing appears at req.Dest.
func (f *Fetcher) Fetch(ctx context.Context, req Request) error {
	if err := req.validate(); err != nil {
		return fmt.Errorf("invalid fetch request: %w", err)
	}

	if err := f.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("fetch %s: %w", req.URL, err)
	}
	defer f.sem.Release(1)

	// Progress state is shared across attempts so the reported byte count
	// never decreases when a retry restarts the transfer from zero.
	progress := &progressWriter{fn: req.Progress}

	err := f.transfer(ctx, req, progress)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || !retryableFailure(err) {
		return err
	}

	f.log.Warn("retrying download",
		"url", req.URL, "backoff", f.retryWait, "error", err)
	select {
	case <-time.After(f.retryWait):
	case <-ctx.Done():
		return fmt.Errorf("fetch %s: %w", req.URL, ctx.Err())
	}

	progress.reset()
	return f.transfer(ctx, req, progress)
}

// retryableFailure reports whether the single automatic retry applies:
// transient network failures and digest mismatches qualify, permanent HTTP
// statuses and local I/O errors do not.
func retryableFailure(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrChecksumMismatch)
}

// transfer performs one complete download attempt.
func (f *Fetcher) transfer(ctx context.Context, req Request, progress *progressWriter) (retErr error) {
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", req.URL, err)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("fetch %s: %w", req.URL, ctx.Err())
		}
		return fmt.Errorf("fetch %s: %w: %w", req.URL, ErrTransient, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", req.URL, resp.Status)
	}

	progress.total = resp.ContentLength
	if progress.total <= 0 {
		progress.total = req.Size
	}

	if err := fileutil.EnsureDirForFile(req.Dest); err != nil {
		return fmt.Errorf("prepare destination for %s: %w", req.URL, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(req.Dest), ".mcenv-part-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", req.Dest, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	digest := req.Checksum.hasher()
	body := io.TeeReader(resp.Body, io.MultiWriter(digest, progress))
	if _, err := io.Copy(tmp, body); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("fetch %s: %w", req.URL, ctx.Err())
		}
		if Transient(err) {
			return fmt.Errorf("stream %s: %w: %w", req.URL, ErrTransient, err)
		}
		return fmt.Errorf("stream %s to %s: %w", req.URL, tmpPath, err)
	}

	got := hex.EncodeToString(digest.Sum(nil))
	if !strings.EqualFold(got, req.Checksum.Hex) {
		return fmt.Errorf("fetch %s: %w: %s digest %s, expected %s",
			req.URL, ErrChecksumMismatch, req.Checksum.Algorithm, got, strings.ToLower(req.Checksum.Hex))
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, req.Dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s to %s: %w", tmpPath, req.Dest, err)
	}
	return nil
}

// progressWriter reports a high-water-mark byte count. The current attempt's
// count only reaches the callback once it exceeds what was already reported,
// which keeps the sequence monotonic across a retried transfer.
type progressWriter struct {
	fn       ProgressFunc
	total    int64
	written  int64
	reported int64
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.fn != nil && w.written > w.reported {
		w.reported = w.written
		w.fn(w.reported, w.total)
	}
	return len(p), nil
}

// reset starts a new attempt without lowering the reported high-water mark.
func (w *progressWriter) reset() {
	w.written = 0
}
