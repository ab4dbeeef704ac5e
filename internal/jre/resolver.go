package jre

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mcenv/mcenv/internal/fetch"
	"github.com/mcenv/mcenv/internal/fileutil"
	"github.com/mcenv/mcenv/internal/sentinel"
)

// ErrUnavailable means no runtime satisfying the requested Java major
// version could be provided, either because the runtime API has no matching
// package or because a downloaded package is unusable.
const ErrUnavailable = sentinel.Error("java runtime unavailable")

// markerName is the file inside a cache entry that records the installed
// release. It is written into the staging directory before the rename, so
// its presence under the final path implies the entry is complete.
const markerName = ".mcenv-runtime.json"

// Runtime is an installed Java runtime ready to launch processes.
type Runtime struct {
	Major    int
	Release  string
	Home     string
	JavaPath string
}

type marker struct {
	Release string `json:"release"`
	Semver  string `json:"semver"`
	JavaRel string `json:"java"`
}

// Config holds the configuration for a Resolver.
type Config struct {
	// CacheDir is where runtimes are installed, one entry per Java major
	// version.
	CacheDir string

	// APIURL is the base URL of the runtime discovery API.
	APIURL string

	// Client performs the discovery API requests.
	Client *retryablehttp.Client

	// Fetcher downloads and verifies runtime archives.
	Fetcher *fetch.Fetcher

	// MetadataTTL bounds how long discovery responses are served from
	// memory before being fetched again.
	MetadataTTL time.Duration

	// Platform overrides the host platform. The zero value means the
	// platform of the running process.
	Platform Platform

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) validate() error {
	var errs []error
	if c.CacheDir == "" {
		errs = append(errs, errors.New("cache dir must not be empty"))
	}
	if c.APIURL == "" {
		errs = append(errs, errors.New("api URL must not be empty"))
	}
	if c.Client == nil {
		errs = append(errs, errors.New("http client must not be nil"))
	}
	if c.Fetcher == nil {
		errs = append(errs, errors.New("fetcher must not be nil"))
	}
	if c.MetadataTTL <= 0 {
		errs = append(errs, errors.New("metadata TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Resolver maps Java major versions to installed runtimes, installing them
// from the runtime API on first use. It is safe for concurrent use by
// multiple goroutines and, through file locking, by multiple processes
// sharing a cache directory.
type Resolver struct {
	cacheDir string
	apiURL   string
	client   *retryablehttp.Client
	fetcher  *fetch.Fetcher
	assets   *gocache.Cache
	platform Platform
	log      *slog.Logger
}

// New creates a Resolver. It performs no I/O.
func New(cfg Config) (*Resolver, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid resolver config: %w", err)
	}
	platform := cfg.Platform
	if platform == (Platform{}) {
		platform = HostPlatform()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		cacheDir: cfg.CacheDir,
		apiURL:   cfg.APIURL,
		client:   cfg.Client,
		fetcher:  cfg.Fetcher,
		assets:   gocache.New(cfg.MetadataTTL, 2*cfg.MetadataTTL),
		platform: platform,
		log:      log,
	}, nil
}

// Resolve returns an installed runtime for the given Java major version,
// installing one on cache miss.
func (r *Resolver) Resolve(ctx context.Context, major int) (Runtime, error) {
	if major <= 0 {
		return Runtime{}, fmt.Errorf("java major version %d: %w", major, ErrUnavailable)
	}

	if rt, ok := r.cached(major); ok {
		return rt, nil
	}
	return r.install(ctx, major)
}

// entryName keys cache entries by major and platform, so a cache directory
// shared between hosts never serves a foreign runtime.
func (r *Resolver) entryName(major int) string {
	return fmt.Sprintf("jre-%d-%s-%s", major, r.platform.OS, r.platform.Arch)
}

func (r *Resolver) entryDir(major int) string {
	return filepath.Join(r.cacheDir, r.entryName(major))
}

func (r *Resolver) lockPath(major int) string {
	return r.entryDir(major) + ".lock"
}

func (r *Resolver) archiveDir() string {
	return filepath.Join(r.cacheDir, "archives")
}

// cached returns the runtime for major if a complete cache entry exists. An
// entry whose marker or java executable is missing counts as absent, which
// lets the install path replace entries damaged by manual edits.
func (r *Resolver) cached(major int) (Runtime, bool) {
	home := r.entryDir(major)
	m, err := readMarker(home)
	if err != nil {
		return Runtime{}, false
	}

	javaPath := filepath.Join(home, m.JavaRel)
	if _, err := os.Stat(javaPath); err != nil {
		return Runtime{}, false
	}
	return Runtime{Major: major, Release: m.Release, Home: home, JavaPath: javaPath}, true
}

func readMarker(home string) (marker, error) {
	data, err := os.ReadFile(filepath.Join(home, markerName))
	if err != nil {
		return marker{}, err
	}
	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return marker{}, fmt.Errorf("decode runtime marker: %w", err)
	}
	if m.JavaRel == "" {
		return marker{}, errors.New("runtime marker missing java path")
	}
	return m, nil
}

func (r *Resolver) install(ctx context.Context, major int) (Runtime, error) {
	a, err := r.latestAsset(ctx, major)
	if err != nil {
		return Runtime{}, err
	}

	if err := fileutil.EnsureDir(r.archiveDir()); err != nil {
		return Runtime{}, fmt.Errorf("prepare runtime cache: %w", err)
	}

	// Download and verify before taking the entry lock; locks are never
	// held across network calls.
	archivePath := filepath.Join(r.archiveDir(), a.Binary.Package.Name)
	err = r.fetcher.Fetch(ctx, fetch.Request{
		URL:      a.Binary.Package.Link,
		Dest:     archivePath,
		Checksum: fetch.Checksum{Algorithm: fetch.SHA256, Hex: a.Binary.Package.Checksum},
		Size:     a.Binary.Package.Size,
	})
	if err != nil {
		return Runtime{}, fmt.Errorf("download runtime %s: %w", a.ReleaseName, err)
	}
	defer func() { _ = os.Remove(archivePath) }()

	lock, err := fileutil.AcquireLock(ctx, r.lockPath(major))
	if err != nil {
		return Runtime{}, err
	}
	defer fileutil.ReleaseLock(r.log, lock)

	// Another process may have completed the entry while we downloaded.
	if rt, ok := r.cached(major); ok {
		r.log.Debug("java runtime appeared while downloading", "major", major)
		return rt, nil
	}
	return r.materialize(ctx, major, a, archivePath)
}

// materialize extracts the verified archive into a staging directory and
// renames it to the final entry path. The caller must hold the entry lock.
func (r *Resolver) materialize(ctx context.Context, major int, a asset, archivePath string) (Runtime, error) {
	// Staging dirs for this entry are only created under the lock we now
	// hold, so any leftovers are stale.
	stagingPrefix := ".staging-" + r.entryName(major) + "-"
	if stale, err := filepath.Glob(filepath.Join(r.cacheDir, stagingPrefix+"*")); err == nil {
		for _, p := range stale {
			_ = os.RemoveAll(p)
		}
	}

	staging, err := os.MkdirTemp(r.cacheDir, stagingPrefix+"*")
	if err != nil {
		return Runtime{}, fmt.Errorf("create staging dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := extractArchive(ctx, archivePath, staging); err != nil {
		return Runtime{}, err
	}

	javaRel := r.platform.javaRelPath()
	javaPath := filepath.Join(staging, javaRel)
	if _, err := os.Stat(javaPath); err != nil {
		return Runtime{}, fmt.Errorf("runtime %s has no %s: %w", a.ReleaseName, javaRel, ErrUnavailable)
	}
	if err := os.Chmod(javaPath, 0o755); err != nil {
		return Runtime{}, fmt.Errorf("mark java executable: %w", err)
	}

	data, err := json.Marshal(marker{Release: a.ReleaseName, Semver: a.Version.Semver, JavaRel: javaRel})
	if err != nil {
		return Runtime{}, fmt.Errorf("encode runtime marker: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(staging, markerName), data, 0o644); err != nil {
		return Runtime{}, err
	}

	home := r.entryDir(major)
	// A partial entry without a marker can remain from an interrupted run.
	if err := os.RemoveAll(home); err != nil {
		return Runtime{}, fmt.Errorf("clear stale runtime entry: %w", err)
	}
	if err := os.Rename(staging, home); err != nil {
		return Runtime{}, fmt.Errorf("commit runtime entry: %w", err)
	}

	r.log.Info("java runtime installed", "major", major, "release", a.ReleaseName, "home", home)

	return Runtime{Major: major, Release: a.ReleaseName, Home: home, JavaPath: filepath.Join(home, javaRel)}, nil
}

// latestAsset queries the runtime API for the newest JRE matching major on
// the resolver's platform, caching responses for MetadataTTL.
func (r *Resolver) latestAsset(ctx context.Context, major int) (asset, error) {
	key := strconv.Itoa(major) + "/" + r.platform.String()
	if cached, ok := r.assets.Get(key); ok {
		return cached.(asset), nil
	}

	var assets []asset
	if err := fetch.GetJSON(ctx, r.client, assetsURL(r.apiURL, major, r.platform), &assets); err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			// The API answers 404 for majors it has no builds for.
			return asset{}, fmt.Errorf("no java %d runtime for %s: %w", major, r.platform, ErrUnavailable)
		}
		return asset{}, fmt.Errorf("query runtime api: %w: %w", ErrUnavailable, err)
	}

	a, ok := pickLatest(assets, r.platform)
	if !ok {
		return asset{}, fmt.Errorf("no java %d runtime for %s: %w", major, r.platform, ErrUnavailable)
	}
	r.assets.SetDefault(key, a)

	return a, nil
}
