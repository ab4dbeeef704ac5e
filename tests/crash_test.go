//go:build integration

package mcenv_test

import (
	"strings"
	"testing"

	"github.com/mcenv/mcenv"
	"github.com/mcenv/mcenv/tests/internal/testutil"
)

// crashingServer dies the way a real server does: it writes a crash report
// into crash-reports/ and exits non-zero.
const crashingServer = `echo "Starting server"
mkdir -p crash-reports
cat > "crash-reports/crash-2024-08-14_12.00.00-server.txt" <<'EOF'
---- Minecraft Crash Report ----
// This is a scripted failure

Description: Exception in server tick loop
EOF
echo "Preparing crash report"
exit 1
`

func TestCrashReportDetectedAndUploaded(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := t.Context()
	inst := installScripted(t, mgr, crashingServer)

	srv, err := mgr.Launch(ctx, inst.ID, mcenv.LaunchOptions{})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	go testutil.DrainLines(srv.Lines())

	res, err := srv.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := srv.State(); got != mcenv.StateCrashed {
		t.Fatalf("State = %v, want crashed", got)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Crash == nil {
		t.Fatal("Result.Crash is nil; crash report not detected")
	}
	if !strings.Contains(res.Crash.Path, "crash-reports") {
		t.Errorf("crash path = %q, want a file under crash-reports", res.Crash.Path)
	}

	url, err := mgr.UploadCrashReport(ctx, res.Crash.Path)
	if err != nil {
		t.Fatalf("UploadCrashReport: %v", err)
	}
	if url != "https://mclo.gs/abc123" {
		t.Errorf("upload URL = %q, want the paste service link", url)
	}
}

// TestCleanExitLeavesNoCrash runs a server that exits zero next to an old
// crash report; the report must not be attributed to this run.
func TestCleanExitLeavesNoCrash(t *testing.T) {
	t.Parallel()

	mgr := newTestManager(t)
	ctx := t.Context()
	inst := installScripted(t, mgr, "echo ok\nexit 0\n")

	srv, err := mgr.Launch(ctx, inst.ID, mcenv.LaunchOptions{})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	go testutil.DrainLines(srv.Lines())

	res, err := srv.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if srv.State() != mcenv.StateExited || res.ExitCode != 0 || res.Crash != nil {
		t.Errorf("state=%v result=%+v, want a clean exit with no crash", srv.State(), res)
	}
}
