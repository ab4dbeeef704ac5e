package mcenv

import "github.com/mcenv/mcenv/internal/process"

// State is the lifecycle phase of a launched server, as reported by
// Server.State.
type State = process.State

const (
	StateNotStarted = process.StateNotStarted
	StateRunning    = process.StateRunning

	// StateExited means the process finished cleanly or was terminated
	// on request.
	StateExited = process.StateExited

	// StateCrashed means the process exited non-zero on its own.
	StateCrashed = process.StateCrashed
)

// Result is the outcome of a finished server process, available from
// Server.Result and Server.Wait once the process has exited.
type Result = process.Result

// CrashReport points at a crash artifact the server wrote before dying.
// Pass its Path to Manager.UploadCrashReport to share it.
type CrashReport = process.CrashReport
