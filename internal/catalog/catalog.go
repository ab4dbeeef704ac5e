package catalog

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	gocache "github.com/patrickmn/go-cache"

	"github.com/mcenv/mcenv/internal/fetch"
	"github.com/mcenv/mcenv/internal/sentinel"
)

const (
	// ErrUnavailable means the manifest or a metadata document could not be
	// fetched or decoded. A previously loaded catalog stays usable.
	ErrUnavailable = sentinel.Error("version catalog unavailable")

	// ErrNotFound means no version matched the selector, or the matched
	// version publishes no server artifact.
	ErrNotFound = sentinel.Error("version not found")
)

// Version describes one entry of the version catalog. The artifact fields
// are zero until the version has been through Resolve, which completes them
// from the per-version metadata document.
type Version struct {
	ID          string
	Channel     Channel
	ReleaseTime time.Time

	ServerURL  string
	ServerSHA1 string
	ServerSize int64
	JavaMajor  int

	metaURL string
}

// Selector names the version to resolve. A non-empty ID selects that exact
// version; otherwise the newest version on Channel is chosen. The zero
// Selector resolves the newest version on any channel.
type Selector struct {
	ID      string
	Channel Channel
}

// Filter narrows a listing to one channel. The zero Filter matches all.
type Filter struct {
	Channel Channel
}

// Config holds the configuration for a Catalog.
type Config struct {
	// ManifestURL is the location of the version manifest document.
	ManifestURL string

	// Client performs the HTTP requests.
	Client *retryablehttp.Client

	// MetadataTTL bounds how long per-version metadata documents are
	// served from memory before being fetched again.
	MetadataTTL time.Duration

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

func (c Config) validate() error {
	var errs []error
	if c.ManifestURL == "" {
		errs = append(errs, errors.New("manifest URL must not be empty"))
	}
	if c.Client == nil {
		errs = append(errs, errors.New("http client must not be nil"))
	}
	if c.MetadataTTL <= 0 {
		errs = append(errs, errors.New("metadata TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Catalog is a point-in-time view of the remote version manifest. Readers
// operate on an immutable snapshot that Refresh replaces atomically, so a
// failed refresh never clobbers a working catalog. It is safe for concurrent
// use by multiple goroutines.
type Catalog struct {
	manifestURL string
	client      *retryablehttp.Client
	meta        *gocache.Cache
	log         *slog.Logger

	// mu serializes manifest fetches so concurrent first calls collapse
	// into a single request.
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	// versions is ordered newest release time first.
	versions []Version
	byID     map[string]int
}

// New creates a Catalog. It performs no I/O; the manifest loads lazily on
// first use or eagerly via Refresh.
func New(cfg Config) (*Catalog, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog config: %w", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{
		manifestURL: cfg.ManifestURL,
		client:      cfg.Client,
		meta:        gocache.New(cfg.MetadataTTL, 2*cfg.MetadataTTL),
		log:         log,
	}, nil
}

// Refresh fetches the manifest and replaces the in-memory catalog. On
// failure the previous snapshot, if any, remains in place.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.fetchManifest(ctx)
	return err
}

// ensure returns the current snapshot, fetching the manifest first if none
// has been loaded yet.
func (c *Catalog) ensure(ctx context.Context) (*snapshot, error) {
	if s := c.snap.Load(); s != nil {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have loaded the manifest while we were waiting.
	if s := c.snap.Load(); s != nil {
		return s, nil
	}
	return c.fetchManifest(ctx)
}

// fetchManifest performs exactly one manifest request and swaps the snapshot
// in on success. The caller must hold mu.
func (c *Catalog) fetchManifest(ctx context.Context) (*snapshot, error) {
	var doc manifest
	if err := fetch.GetJSON(ctx, c.client, c.manifestURL, &doc); err != nil {
		return nil, fmt.Errorf("refresh version catalog: %w: %w", ErrUnavailable, err)
	}

	s := newSnapshot(doc)
	c.snap.Store(s)
	c.log.Debug("version catalog refreshed", "versions", len(s.versions))

	return s, nil
}

func newSnapshot(doc manifest) *snapshot {
	versions := make([]Version, 0, len(doc.Versions))
	for _, e := range doc.Versions {
		versions = append(versions, Version{
			ID:          e.ID,
			Channel:     ParseChannel(e.Type),
			ReleaseTime: e.ReleaseTime,
			metaURL:     e.URL,
		})
	}
	slices.SortFunc(versions, func(a, b Version) int {
		return b.ReleaseTime.Compare(a.ReleaseTime)
	})

	byID := make(map[string]int, len(versions))
	for i, v := range versions {
		byID[v.ID] = i
	}
	return &snapshot{versions: versions, byID: byID}
}

// Resolve picks the version named by sel and completes its artifact fields
// from the per-version metadata document.
func (c *Catalog) Resolve(ctx context.Context, sel Selector) (Version, error) {
	s, err := c.ensure(ctx)
	if err != nil {
		return Version{}, err
	}

	v, err := s.pick(sel)
	if err != nil {
		return Version{}, err
	}
	return c.complete(ctx, v)
}

func (s *snapshot) pick(sel Selector) (Version, error) {
	if sel.ID != "" {
		i, ok := s.byID[sel.ID]
		if !ok {
			return Version{}, fmt.Errorf("version %q: %w", sel.ID, ErrNotFound)
		}
		v := s.versions[i]
		if !sel.Channel.matches(v.Channel) {
			return Version{}, fmt.Errorf("version %q is on channel %s, not %s: %w",
				sel.ID, v.Channel, sel.Channel, ErrNotFound)
		}
		return v, nil
	}

	// versions is ordered newest first, so the first match is the newest
	// on the requested channel.
	for _, v := range s.versions {
		if sel.Channel.matches(v.Channel) {
			return v, nil
		}
	}
	return Version{}, fmt.Errorf("no version on channel %s: %w", sel.Channel, ErrNotFound)
}

// complete fills the artifact fields of v. Metadata documents are immutable
// per version, so cache hits within MetadataTTL skip the network entirely.
func (c *Catalog) complete(ctx context.Context, v Version) (Version, error) {
	var meta versionMeta
	if cached, ok := c.meta.Get(v.metaURL); ok {
		meta = cached.(versionMeta)
	} else {
		if err := fetch.GetJSON(ctx, c.client, v.metaURL, &meta); err != nil {
			return Version{}, fmt.Errorf("version %s metadata: %w: %w", v.ID, ErrUnavailable, err)
		}
		c.meta.SetDefault(v.metaURL, meta)
	}

	server, ok := meta.Downloads[downloadServer]
	if !ok || server.URL == "" {
		return Version{}, fmt.Errorf("version %s has no server artifact: %w", v.ID, ErrNotFound)
	}

	v.ServerURL = server.URL
	v.ServerSHA1 = server.SHA1
	v.ServerSize = server.Size
	v.JavaMajor = meta.JavaVersion.MajorVersion
	if v.JavaMajor == 0 {
		// Versions predating the javaVersion field run on Java 8.
		v.JavaMajor = 8
	}
	return v, nil
}

// List returns the catalog entries matching f, newest first. The sequence
// iterates over an immutable snapshot and may be ranged over repeatedly.
func (c *Catalog) List(ctx context.Context, f Filter) (iter.Seq[Version], error) {
	s, err := c.ensure(ctx)
	if err != nil {
		return nil, err
	}

	return func(yield func(Version) bool) {
		for _, v := range s.versions {
			if !f.Channel.matches(v.Channel) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}, nil
}
