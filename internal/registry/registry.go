// Package registry persists the set of installed instances as a single
// JSON document guarded by a file lock.
//
// Every mutation runs the full read-modify-write-persist cycle under an
// exclusive advisory lock, so concurrent processes sharing a root directory
// serialize their changes. Writes go through an atomic rename; a reader
// never observes a partially written document. Records whose instance
// directory has vanished are dropped at the start of every mutation.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mcenv/mcenv/internal/fileutil"
	"github.com/mcenv/mcenv/internal/sentinel"
)

const (
	// ErrDuplicate means an instance with the same ID is already
	// registered.
	ErrDuplicate = sentinel.Error("instance already exists")

	// ErrNotFound means no instance with the given ID is registered.
	ErrNotFound = sentinel.Error("instance not found")

	// ErrCorrupt means the registry file exists but cannot be decoded.
	// The file is never repaired or truncated automatically.
	ErrCorrupt = sentinel.Error("instance registry corrupt")
)

const (
	fileName = "registry.json"
	lockName = "registry.lock"

	schemaVersion = 1
)

// registryFile is the on-disk document. Unknown fields in the file are
// ignored on read and dropped on the next rewrite.
type registryFile struct {
	Schema    int        `json:"schema"`
	Instances []Instance `json:"instances"`
}

func (f *registryFile) index(id string) int {
	for i, in := range f.Instances {
		if in.ID == id {
			return i
		}
	}
	return -1
}

// Config holds the configuration for a Registry.
type Config struct {
	// Dir is the directory holding the registry document and its lock
	// file.
	Dir string

	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

// Registry stores instance records. It is safe for concurrent use by
// multiple goroutines and, through file locking, by multiple processes.
type Registry struct {
	dir string
	log *slog.Logger
}

// New creates a Registry. It performs no I/O; the document is created on
// the first mutation.
func New(cfg Config) (*Registry, error) {
	if cfg.Dir == "" {
		return nil, errors.New("invalid registry config: dir must not be empty")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Registry{dir: cfg.Dir, log: log}, nil
}

func (r *Registry) path() string {
	return filepath.Join(r.dir, fileName)
}

func (r *Registry) lockPath() string {
	return filepath.Join(r.dir, lockName)
}

// Insert registers a new instance.
func (r *Registry) Insert(ctx context.Context, in Instance) error {
	if err := in.validate(); err != nil {
		return fmt.Errorf("invalid instance record: %w", err)
	}

	return r.mutate(ctx, func(f *registryFile) error {
		if f.index(in.ID) >= 0 {
			return fmt.Errorf("instance %q: %w", in.ID, ErrDuplicate)
		}
		f.Instances = append(f.Instances, in)
		return nil
	})
}

// Remove drops the instance with the given ID.
func (r *Registry) Remove(ctx context.Context, id string) error {
	return r.mutate(ctx, func(f *registryFile) error {
		i := f.index(id)
		if i < 0 {
			return fmt.Errorf("instance %q: %w", id, ErrNotFound)
		}
		f.Instances = slices.Delete(f.Instances, i, i+1)
		return nil
	})
}

// Touch stamps the instance's last launch time.
func (r *Registry) Touch(ctx context.Context, id string, when time.Time) error {
	return r.mutate(ctx, func(f *registryFile) error {
		i := f.index(id)
		if i < 0 {
			return fmt.Errorf("instance %q: %w", id, ErrNotFound)
		}
		f.Instances[i].LastLaunch = when
		return nil
	})
}

// Get returns the record for the given ID.
func (r *Registry) Get(ctx context.Context, id string) (Instance, error) {
	f, err := r.read(ctx)
	if err != nil {
		return Instance{}, err
	}

	i := f.index(id)
	if i < 0 {
		return Instance{}, fmt.Errorf("instance %q: %w", id, ErrNotFound)
	}
	return f.Instances[i], nil
}

// List returns all records ordered by creation time.
func (r *Registry) List(ctx context.Context) ([]Instance, error) {
	f, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(f.Instances)
	slices.SortFunc(out, func(a, b Instance) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// read loads the document under the lock. The lock covers only the load;
// callers work on their own copy afterwards.
func (r *Registry) read(ctx context.Context) (registryFile, error) {
	if err := fileutil.EnsureDir(r.dir); err != nil {
		return registryFile{}, fmt.Errorf("prepare registry dir: %w", err)
	}

	lock, err := fileutil.AcquireLock(ctx, r.lockPath())
	if err != nil {
		return registryFile{}, err
	}
	defer fileutil.ReleaseLock(r.log, lock)

	return r.load()
}

// mutate runs fn over the loaded document and persists the result, all
// under the exclusive lock. Records whose directory no longer exists are
// dropped before fn sees the document.
func (r *Registry) mutate(ctx context.Context, fn func(*registryFile) error) error {
	if err := fileutil.EnsureDir(r.dir); err != nil {
		return fmt.Errorf("prepare registry dir: %w", err)
	}

	lock, err := fileutil.AcquireLock(ctx, r.lockPath())
	if err != nil {
		return err
	}
	defer fileutil.ReleaseLock(r.log, lock)

	f, err := r.load()
	if err != nil {
		return err
	}
	r.pruneMissing(&f)

	if err := fn(&f); err != nil {
		return err
	}
	return r.save(f)
}

// load reads the registry document. A missing file is an empty registry.
func (r *Registry) load() (registryFile, error) {
	data, err := os.ReadFile(r.path())
	if errors.Is(err, os.ErrNotExist) {
		return registryFile{Schema: schemaVersion}, nil
	}
	if err != nil {
		return registryFile{}, fmt.Errorf("read instance registry: %w", err)
	}

	var f registryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return registryFile{}, fmt.Errorf("parse %s: %w: %w", r.path(), ErrCorrupt, err)
	}
	if f.Schema <= 0 {
		return registryFile{}, fmt.Errorf("%s has no schema marker: %w", r.path(), ErrCorrupt)
	}
	return f, nil
}

func (r *Registry) save(f registryFile) error {
	f.Schema = schemaVersion

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode instance registry: %w", err)
	}
	data = append(data, '\n')

	if err := fileutil.WriteFileAtomic(r.path(), data, 0o644); err != nil {
		return fmt.Errorf("persist instance registry: %w", err)
	}
	return nil
}

// pruneMissing drops records whose instance directory has vanished, healing
// the registry after interrupted uninstalls or manual deletion.
func (r *Registry) pruneMissing(f *registryFile) {
	kept := f.Instances[:0]
	for _, in := range f.Instances {
		if _, err := os.Stat(in.Dir); errors.Is(err, os.ErrNotExist) {
			r.log.Warn("dropping instance record with missing directory",
				"id", in.ID, "dir", in.Dir)
			continue
		}
		kept = append(kept, in)
	}
	f.Instances = kept
}
