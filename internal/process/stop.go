package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// killDrainTimeout is the hard upper bound for waiting on the exit
// broadcast after a kill has been sent (or after the process has already
// exited). A killed process should be reaped almost immediately; this is a
// safety net against cmd.Wait blocking on stuck I/O.
const killDrainTimeout = 10 * time.Second

// Terminate shuts the process down: termination signal first, then a kill
// once the grace period elapses. It returns once the process has reached a
// terminal state. Calling it on a process that is not running, including one
// that already finished, is a no-op. Signal-induced exits during a
// requested shutdown are recorded as clean stops, not crashes.
func (s *Server) Terminate(ctx context.Context) error {
	if s.State() != StateRunning {
		return nil
	}
	if !s.terminating.CompareAndSwap(false, true) {
		// Another Terminate is already driving the shutdown.
		select {
		case <-s.exited:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.log.Info("terminating server process", "pid", s.cmd.Process.Pid, "grace", s.grace)

	if err := s.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Either the process is already gone or the platform cannot
		// deliver the signal; force the issue and collect the exit.
		_ = s.cmd.Process.Kill()
		if !drainExited(s.exited, killDrainTimeout) {
			return fmt.Errorf("terminate %s: process did not exit after kill", s.name)
		}
		return nil
	}

	// Kill on an already-exited process returns "process already
	// finished", which is harmless and discarded.
	killTimer := time.AfterFunc(s.grace, func() {
		s.log.Warn("grace period elapsed, killing server process", "pid", s.cmd.Process.Pid)
		_ = s.cmd.Process.Kill()
	})
	defer killTimer.Stop()

	total := time.NewTimer(s.grace + killDrainTimeout)
	defer total.Stop()

	select {
	case <-s.exited:
		return nil
	case <-ctx.Done():
		_ = s.cmd.Process.Kill()
		if !drainExited(s.exited, killDrainTimeout) {
			return fmt.Errorf("terminate %s: process did not exit after kill: %w", s.name, ctx.Err())
		}
		return ctx.Err()
	case <-total.C:
		return fmt.Errorf("terminate %s: process did not exit after kill", s.name)
	}
}

// drainExited waits for the exit broadcast with a hard upper bound.
func drainExited(exited <-chan struct{}, timeout time.Duration) bool {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-exited:
		return true
	case <-t.C:
		return false
	}
}

// signalExit reports whether err is an exit caused by the termination or
// kill signal.
func signalExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return false
	}
	sig := status.Signal()
	return sig == syscall.SIGTERM || sig == syscall.SIGKILL
}

// exitCodeOf maps a cmd.Wait error to an exit code: 0 for success, the
// child's code for a regular non-zero exit, -1 for signal deaths and wait
// failures.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
