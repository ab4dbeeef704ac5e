package mcenv

import (
	"context"
	"iter"
	"os"
	"path/filepath"

	"github.com/mcenv/mcenv/internal/core"
	"github.com/mcenv/mcenv/internal/process"
)

// Compile-time interface satisfaction checks.
var (
	_ Manager = (*managerWrapper)(nil)
	_ Server  = (*serverWrapper)(nil)
)

// managerWrapper wraps core.Manager to implement the Manager interface.
//
// The core.Manager is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to access internal
// methods that are not part of the public Manager interface.
type managerWrapper struct {
	mgr *core.Manager
}

// defaultManagerConfig returns a managerConfig populated with all default
// values. Both NewManager and test helpers use this to avoid duplicating
// the default field assignments.
func defaultManagerConfig() managerConfig {
	return managerConfig{core.ManagerConfig{
		RootDir:                defaultRootDir(),
		ManifestURL:            DefaultManifestURL,
		RuntimeAPIURL:          DefaultRuntimeAPIURL,
		UploadURL:              DefaultUploadURL,
		MaxConcurrentDownloads: DefaultMaxConcurrentDownloads,
		RetryWaitMin:           DefaultRetryWaitMin,
		RetryWaitMax:           DefaultRetryWaitMax,
		MetadataTTL:            DefaultMetadataTTL,
		TerminationGrace:       DefaultTerminationGrace,
		LineBuffer:             DefaultLineBuffer,
	}}
}

// defaultRootDir places the root under the user's home directory, falling
// back to the system temp directory when the home cannot be determined
// (e.g. stripped-down containers without a HOME).
func defaultRootDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, DefaultRootDirName)
	}
	return filepath.Join(os.TempDir(), DefaultRootDirName)
}

// NewManager returns a Manager rooted at the configured directory.
//
// Each call creates an independent manager; managers sharing a root
// coordinate through the on-disk registry lock, so it is safe to create
// several (even across processes). This performs no I/O; the root directory
// is created lazily by the operations that need it.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
//
//nolint:ireturn // Returns Manager interface by design for testability (mockable).
func NewManager(opts ...Option) Manager {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &managerWrapper{mgr: core.NewManagerWithConfig(cfg.toCoreConfig())}
}

// Refresh wraps core.Manager.Refresh.
func (w *managerWrapper) Refresh(ctx context.Context) error {
	return w.mgr.Refresh(ctx)
}

// Versions wraps core.Manager.Versions.
func (w *managerWrapper) Versions(ctx context.Context, f Filter) (iter.Seq[Version], error) {
	return w.mgr.Versions(ctx, f)
}

// ResolveVersion wraps core.Manager.ResolveVersion.
func (w *managerWrapper) ResolveVersion(ctx context.Context, sel Selector) (Version, error) {
	return w.mgr.ResolveVersion(ctx, sel)
}

// Install wraps core.Manager.Install.
func (w *managerWrapper) Install(ctx context.Context, name string, sel Selector, opts InstallOptions) (Instance, error) {
	return w.mgr.Install(ctx, name, sel, opts)
}

// Uninstall wraps core.Manager.Uninstall.
func (w *managerWrapper) Uninstall(ctx context.Context, id string) error {
	return w.mgr.Uninstall(ctx, id)
}

// Launch implements Manager.Launch, returning the Server interface.
//
//nolint:ireturn // Returns Server interface by design for testability (mockable).
func (w *managerWrapper) Launch(ctx context.Context, id string, opts LaunchOptions) (Server, error) {
	srv, err := w.mgr.Launch(ctx, id, opts)
	if err != nil {
		return nil, err
	}
	return &serverWrapper{srv: srv}, nil
}

// Instances wraps core.Manager.Instances.
func (w *managerWrapper) Instances(ctx context.Context) ([]Instance, error) {
	return w.mgr.Instances(ctx)
}

// Instance wraps core.Manager.Instance.
func (w *managerWrapper) Instance(ctx context.Context, id string) (Instance, error) {
	return w.mgr.Instance(ctx, id)
}

// InstanceDir wraps core.Manager.InstanceDir.
func (w *managerWrapper) InstanceDir(id string) string {
	return w.mgr.InstanceDir(id)
}

// UploadCrashReport wraps core.Manager.UploadCrashReport.
func (w *managerWrapper) UploadCrashReport(ctx context.Context, path string) (string, error) {
	return w.mgr.UploadCrashReport(ctx, path)
}

// serverWrapper wraps process.Server to implement the Server interface.
//
// The process.Server is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to access internal
// methods (e.g. Start) that are not part of the public Server interface.
type serverWrapper struct {
	srv *process.Server
}

// State wraps process.Server.State.
func (w *serverWrapper) State() State {
	return w.srv.State()
}

// PID wraps process.Server.PID.
func (w *serverWrapper) PID() int {
	return w.srv.PID()
}

// Lines wraps process.Server.Lines.
func (w *serverWrapper) Lines() <-chan string {
	return w.srv.Lines()
}

// Exited wraps process.Server.Exited.
func (w *serverWrapper) Exited() <-chan struct{} {
	return w.srv.Exited()
}

// Result wraps process.Server.Result.
func (w *serverWrapper) Result() (Result, bool) {
	return w.srv.Result()
}

// Wait wraps process.Server.Wait.
func (w *serverWrapper) Wait(ctx context.Context) (Result, error) {
	return w.srv.Wait(ctx)
}

// Terminate wraps process.Server.Terminate.
func (w *serverWrapper) Terminate(ctx context.Context) error {
	return w.srv.Terminate(ctx)
}
