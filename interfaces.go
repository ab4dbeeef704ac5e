package mcenv

import (
	"context"
	"iter"
)

// Manager is the public interface for installing, inspecting and launching
// Minecraft server instances. Obtain one via NewManager.
//
// All methods are safe for concurrent use. Methods taking a context honor
// its cancellation; a canceled install leaves no registry record behind.
type Manager interface {
	// Refresh discards the cached version manifest so the next catalog
	// operation fetches a fresh copy.
	Refresh(ctx context.Context) error

	// Versions lists the catalog entries matching f, newest first.
	// Returns ErrCatalogUnavailable when the manifest cannot be fetched.
	Versions(ctx context.Context, f Filter) (iter.Seq[Version], error)

	// ResolveVersion resolves sel to a concrete catalog entry, complete
	// with server artifact metadata. Returns ErrVersionNotFound when no
	// entry matches.
	ResolveVersion(ctx context.Context, sel Selector) (Version, error)

	// Install provisions a new instance: the version is resolved, the
	// server jar and a matching Java runtime are downloaded, the EULA is
	// accepted and default launch settings are written, then the instance
	// is recorded in the registry.
	//
	// The instance ID is derived from name unless opts.ID overrides it.
	// Returns ErrDuplicateInstance when the ID is already registered and
	// opts.Reinstall is false.
	Install(ctx context.Context, name string, sel Selector, opts InstallOptions) (Instance, error)

	// Uninstall removes an instance's directory and registry record.
	// Returns ErrInstanceNotFound when no such instance is registered.
	// Safe to retry after a partial failure.
	Uninstall(ctx context.Context, id string) error

	// Launch starts an installed instance's server process and returns
	// its supervisor. Launch settings are read fresh from the instance's
	// settings file, so edits made since install take effect.
	Launch(ctx context.Context, id string, opts LaunchOptions) (Server, error)

	// Instances lists all registered instances. Records whose directory
	// has disappeared are skipped.
	Instances(ctx context.Context) ([]Instance, error)

	// Instance returns the registered instance with the given ID, or
	// ErrInstanceNotFound.
	Instance(ctx context.Context, id string) (Instance, error)

	// InstanceDir returns the directory an instance with the given ID
	// occupies (or would occupy) under the manager's root.
	InstanceDir(id string) string

	// UploadCrashReport uploads the file at path to the paste service and
	// returns the public URL. Returns ErrUploadFailed when the service
	// rejects the upload or the file is empty.
	UploadCrashReport(ctx context.Context, path string) (string, error)
}

// Server supervises one launched server process. Obtain one via
// Manager.Launch; the process is already running.
//
// All methods are safe for concurrent use.
type Server interface {
	// State returns the current lifecycle phase.
	State() State

	// PID returns the operating system process ID, or 0 before the
	// process existed.
	PID() int

	// Lines streams the server's combined stdout and stderr, one line
	// per receive. The channel is closed after the process exits and the
	// remaining output has been delivered. A slow consumer applies
	// backpressure; no lines are dropped.
	Lines() <-chan string

	// Exited is closed once the process has exited and its Result is
	// available.
	Exited() <-chan struct{}

	// Result returns the process outcome. ok is false until the process
	// has exited.
	Result() (Result, bool)

	// Wait blocks until the process exits or ctx is done. On ctx
	// expiry the process keeps running and the ctx error is returned.
	Wait(ctx context.Context) (Result, error)

	// Terminate stops the process: a polite stop signal first, then a
	// forced kill after the configured grace period. Terminating a
	// process that already exited is a no-op. Terminate returns once the
	// process is gone or ctx is done.
	Terminate(ctx context.Context) error
}
