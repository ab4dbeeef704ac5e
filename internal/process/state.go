package process

import "time"

// State is the lifecycle phase of a supervised server process.
type State int32

const (
	StateNotStarted State = iota
	StateRunning
	StateExited
	StateCrashed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the process has finished.
func (s State) Terminal() bool {
	return s == StateExited || s == StateCrashed
}

// CrashReport points at a crash artifact the server wrote before dying.
type CrashReport struct {
	Path    string
	ModTime time.Time
}

// Result is the outcome of a finished server process.
type Result struct {
	ExitCode int

	// Crash is set when the process exited non-zero and left a crash
	// artifact newer than the launch.
	Crash *CrashReport
}
