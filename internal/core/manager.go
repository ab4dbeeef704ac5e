package core

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"

	"github.com/mcenv/mcenv/internal/catalog"
	"github.com/mcenv/mcenv/internal/fetch"
	"github.com/mcenv/mcenv/internal/jre"
	"github.com/mcenv/mcenv/internal/mclogs"
	"github.com/mcenv/mcenv/internal/registry"
)

// apiRetryMax is the request-level retry budget for metadata endpoints (the
// version manifest, per-version documents and runtime discovery). Artifact
// transfers run with request retries disabled; the fetcher owns that retry.
const apiRetryMax = 2

// Manager is the concrete implementation behind the public API. It
// coordinates the version catalog, the Java runtime resolver, the artifact
// fetcher, the instance registry and the crash-report uploader. It is safe
// for concurrent use by multiple goroutines; cross-process safety comes from
// the file locks its collaborators take.
//
// Configuration is stored in the cfg field and is immutable after
// construction. The manager itself holds no mutable state; everything it
// persists lives under cfg.RootDir.
type Manager struct {
	cfg ManagerConfig

	catalog  *catalog.Catalog
	runtimes *jre.Resolver
	fetcher  *fetch.Fetcher
	registry *registry.Registry
	uploads  *mclogs.Client
}

// NewManagerWithConfig creates a Manager with the provided configuration.
// This performs no I/O; directories are created on first use.
//
// Panics if cfg.Validate() reports any errors. Invalid configuration is a
// programmer error that should be caught at construction time, similar to
// regexp.MustCompile.
func NewManagerWithConfig(cfg ManagerConfig) *Manager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("mcenv: invalid manager config: %v", err))
	}

	log := Logger()
	apiClient := fetch.NewClient(log, apiRetryMax, cfg.RetryWaitMin, cfg.RetryWaitMax, cfg.HTTPClient)
	transferClient := fetch.NewClient(log, 0, cfg.RetryWaitMin, cfg.RetryWaitMax, cfg.HTTPClient)

	fetcher, err := fetch.New(fetch.Config{
		Client:        transferClient,
		MaxConcurrent: cfg.MaxConcurrentDownloads,
		RetryWait:     cfg.RetryWaitMin,
		Logger:        log,
	})
	if err != nil {
		panic(fmt.Sprintf("mcenv: build fetcher: %v", err))
	}

	cat, err := catalog.New(catalog.Config{
		ManifestURL: cfg.ManifestURL,
		Client:      apiClient,
		MetadataTTL: cfg.MetadataTTL,
		Logger:      log,
	})
	if err != nil {
		panic(fmt.Sprintf("mcenv: build catalog: %v", err))
	}

	runtimes, err := jre.New(jre.Config{
		CacheDir:    filepath.Join(cfg.RootDir, "runtimes"),
		APIURL:      cfg.RuntimeAPIURL,
		Client:      apiClient,
		Fetcher:     fetcher,
		MetadataTTL: cfg.MetadataTTL,
		Logger:      log,
	})
	if err != nil {
		panic(fmt.Sprintf("mcenv: build runtime resolver: %v", err))
	}

	reg, err := registry.New(registry.Config{
		Dir:    cfg.RootDir,
		Logger: log,
	})
	if err != nil {
		panic(fmt.Sprintf("mcenv: build registry: %v", err))
	}

	uploads, err := mclogs.New(mclogs.Config{
		URL:    cfg.UploadURL,
		Client: apiClient,
		Logger: log,
	})
	if err != nil {
		panic(fmt.Sprintf("mcenv: build upload client: %v", err))
	}

	return &Manager{
		cfg:      cfg,
		catalog:  cat,
		runtimes: runtimes,
		fetcher:  fetcher,
		registry: reg,
		uploads:  uploads,
	}
}

// instancesDir is the parent of every instance directory.
func (m *Manager) instancesDir() string {
	return filepath.Join(m.cfg.RootDir, "instances")
}

// InstanceDir returns the directory an instance with the given ID occupies,
// whether or not it is installed.
func (m *Manager) InstanceDir(id string) string {
	return filepath.Join(m.instancesDir(), id)
}

// Refresh fetches the version manifest, replacing the in-memory catalog.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.catalog.Refresh(ctx)
}

// Versions lists known server versions, newest first, loading the manifest
// on first use.
func (m *Manager) Versions(ctx context.Context, f catalog.Filter) (iter.Seq[catalog.Version], error) {
	return m.catalog.List(ctx, f)
}

// ResolveVersion resolves a selector to a fully described version, including
// the server artifact location and required Java major version.
func (m *Manager) ResolveVersion(ctx context.Context, sel catalog.Selector) (catalog.Version, error) {
	return m.catalog.Resolve(ctx, sel)
}

// Instances returns all registered instances sorted by creation time.
func (m *Manager) Instances(ctx context.Context) ([]registry.Instance, error) {
	return m.registry.List(ctx)
}

// Instance returns the registry record for id.
func (m *Manager) Instance(ctx context.Context, id string) (registry.Instance, error) {
	return m.registry.Get(ctx, id)
}

// UploadCrashReport uploads the crash artifact at path to the paste service
// and returns the share URL.
func (m *Manager) UploadCrashReport(ctx context.Context, path string) (string, error) {
	return m.uploads.Upload(ctx, path)
}
