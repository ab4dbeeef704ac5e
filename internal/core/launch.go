package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mcenv/mcenv/internal/launch"
	"github.com/mcenv/mcenv/internal/process"
)

// LaunchOptions tunes a single Launch call.
type LaunchOptions struct {
	// Stdin is connected to the server process, carrying console commands.
	// Nil means no input.
	Stdin io.Reader
}

// Launch starts the server process of an installed instance and returns its
// supervisor. The launch settings file is read fresh, so edits made since
// install take effect, including a changed Java version, which is resolved
// (and cached) like at install time.
//
// The returned server is already started; the caller owns draining its
// output and deciding when to Terminate.
func (m *Manager) Launch(ctx context.Context, id string, opts LaunchOptions) (*process.Server, error) {
	rec, err := m.registry.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", id, err)
	}

	lc, err := launch.Load(rec.Dir)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", id, err)
	}

	rt, err := m.runtimes.Resolve(ctx, lc.Java.Version)
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", id, err)
	}

	jarPath := filepath.Join(rec.Dir, lc.Server.Jar)
	if _, err := os.Stat(jarPath); err != nil {
		return nil, fmt.Errorf("launch %s: server jar %s: %w", id, lc.Server.Jar, err)
	}

	srv, err := process.New(process.Config{
		Name:       id,
		JavaPath:   rt.JavaPath,
		Args:       lc.CommandArgs(),
		Dir:        rec.Dir,
		Stdin:      opts.Stdin,
		LineBuffer: m.cfg.LineBuffer,
		Grace:      m.cfg.TerminationGrace,
		Logger:     Logger(),
	})
	if err != nil {
		return nil, fmt.Errorf("launch %s: %w", id, err)
	}
	if err := srv.Start(ctx); err != nil {
		return nil, fmt.Errorf("launch %s: %w", id, err)
	}

	// The server is running; a failed stamp is not worth killing it over.
	if err := m.registry.Touch(ctx, id, time.Now().UTC()); err != nil {
		Logger().Warn("failed to stamp last launch", "id", id, "error", err)
	}

	Logger().Info("instance launched",
		"id", id, "version", rec.Version, "java", rt.Release, "pid", srv.PID())

	return srv, nil
}
