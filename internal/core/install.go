package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcenv/mcenv/internal/catalog"
	"github.com/mcenv/mcenv/internal/fetch"
	"github.com/mcenv/mcenv/internal/fileutil"
	"github.com/mcenv/mcenv/internal/jre"
	"github.com/mcenv/mcenv/internal/launch"
	"github.com/mcenv/mcenv/internal/registry"
)

// InstallOptions tunes a single Install call.
type InstallOptions struct {
	// ID overrides the instance ID derived from the name.
	ID string

	// Reinstall removes an existing instance with the same ID first. The
	// fresh install then writes default launch settings; without Reinstall
	// an existing settings file is preserved.
	Reinstall bool

	// Progress, when non-nil, receives server jar download progress.
	Progress fetch.ProgressFunc
}

// Install resolves the selected version, materializes an instance directory
// with the server jar, launch settings and accepted EULA, ensures the
// required Java runtime is cached, and registers the instance.
//
// The runtime and the server jar are acquired concurrently; the first
// failure cancels the other. On failure the instance directory is left on
// disk but unregistered, so it can be inspected; installing again with the
// same name resumes over it, and Reinstall discards it. A cached runtime is
// kept even when the install fails, since the cache is keyed independently
// of instances.
func (m *Manager) Install(ctx context.Context, name string, sel catalog.Selector, opts InstallOptions) (registry.Instance, error) {
	ver, err := m.catalog.Resolve(ctx, sel)
	if err != nil {
		return registry.Instance{}, fmt.Errorf("install %q: %w", name, err)
	}

	id := opts.ID
	if id == "" {
		id, err = registry.DeriveID(name)
		if err != nil {
			return registry.Instance{}, fmt.Errorf("install %q: %w", name, err)
		}
	}
	dir := m.InstanceDir(id)

	if existing, err := m.registry.Get(ctx, id); err == nil {
		if !opts.Reinstall {
			return registry.Instance{}, fmt.Errorf("instance %s (version %s) already installed: %w",
				id, existing.Version, registry.ErrDuplicate)
		}
	} else if !errors.Is(err, registry.ErrNotFound) {
		return registry.Instance{}, fmt.Errorf("install %s: %w", id, err)
	}

	if opts.Reinstall {
		if err := m.removeInstance(ctx, id, dir); err != nil {
			return registry.Instance{}, fmt.Errorf("reinstall %s: %w", id, err)
		}
	}

	if err := fileutil.EnsureDir(dir); err != nil {
		return registry.Instance{}, fmt.Errorf("install %s: %w", id, err)
	}

	var rt jre.Runtime
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rt, err = m.runtimes.Resolve(gctx, ver.JavaMajor)
		return err
	})
	g.Go(func() error {
		return m.fetcher.Fetch(gctx, fetch.Request{
			URL:      ver.ServerURL,
			Dest:     launch.JarPath(dir),
			Checksum: fetch.Checksum{Algorithm: fetch.SHA1, Hex: ver.ServerSHA1},
			Size:     ver.ServerSize,
			Progress: opts.Progress,
		})
	})
	if err := g.Wait(); err != nil {
		Logger().Warn("install failed; instance directory left unregistered",
			"id", id, "version", ver.ID, "dir", dir, "error", err)
		return registry.Instance{}, fmt.Errorf("install %s (version %s): %w", id, ver.ID, err)
	}

	if err := launch.WriteEULA(dir); err != nil {
		return registry.Instance{}, fmt.Errorf("install %s: %w", id, err)
	}
	// A settings file surviving from an earlier attempt carries user edits;
	// only a missing one gets defaults.
	if !launch.Exists(dir) {
		if err := launch.Write(dir, launch.Default(ver.JavaMajor)); err != nil {
			return registry.Instance{}, fmt.Errorf("install %s: %w", id, err)
		}
	}

	inst := registry.Instance{
		ID:         id,
		Name:       name,
		Version:    ver.ID,
		Dir:        dir,
		RuntimeDir: rt.Home,
		ConfigPath: launch.Path(dir),
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.registry.Insert(ctx, inst); err != nil {
		Logger().Warn("install failed; instance directory left unregistered",
			"id", id, "version", ver.ID, "dir", dir, "error", err)
		return registry.Instance{}, fmt.Errorf("register instance %s: %w", id, err)
	}

	Logger().Info("instance installed",
		"id", id, "version", ver.ID, "java", ver.JavaMajor, "dir", dir)

	return inst, nil
}

// Uninstall removes the instance directory and then its registry record.
// Directory-first ordering means an interruption between the two leaves an
// orphan record, which the next registry mutation drops; retrying Uninstall
// also succeeds, treating the missing directory as already removed.
func (m *Manager) Uninstall(ctx context.Context, id string) error {
	rec, err := m.registry.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("uninstall %s: %w", id, err)
	}

	if err := m.removeInstance(ctx, id, rec.Dir); err != nil {
		return fmt.Errorf("uninstall %s: %w", id, err)
	}

	Logger().Info("instance uninstalled", "id", id, "dir", rec.Dir)

	return nil
}

// removeInstance deletes the instance directory if present and drops the
// registry record if one exists. The registry prunes records with missing
// directories at the start of every mutation, so the record may already be
// gone by the time the removal runs; that is not an error here.
func (m *Manager) removeInstance(ctx context.Context, id, dir string) error {
	if dir != "" {
		// Only paths under the instances root are ever deleted, whatever
		// the registry file claims.
		if !fileutil.Within(m.instancesDir(), dir) {
			return fmt.Errorf("instance directory %s is outside %s; refusing to delete", dir, m.instancesDir())
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove instance directory %s: %w", dir, err)
		}
	}

	if err := m.registry.Remove(ctx, id); err != nil && !errors.Is(err, registry.ErrNotFound) {
		return fmt.Errorf("deregister instance %s: %w", id, err)
	}
	return nil
}
