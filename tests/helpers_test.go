//go:build integration

package mcenv_test

import (
	"runtime"
	"testing"

	"github.com/mcenv/mcenv"
	"github.com/mcenv/mcenv/tests/internal/testutil"
)

// newTestManager returns a manager with a fresh root directory, wired to the
// shared fixture.
//
//nolint:ireturn // Test helper returns Manager matching the public API.
func newTestManager(t *testing.T) mcenv.Manager {
	t.Helper()

	return mcenv.NewManager(sharedFixture.Options(t.TempDir())...)
}

// installScripted installs the newest release under a unique name and
// replaces its server jar with the given shell script.
func installScripted(t *testing.T, mgr mcenv.Manager, script string) mcenv.Instance {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	inst, err := mgr.Install(t.Context(), testutil.UniqueName("world"),
		mcenv.Selector{Channel: mcenv.ChannelRelease}, mcenv.InstallOptions{})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	testutil.ScriptServer(t, inst, script)
	return inst
}
