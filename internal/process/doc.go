// Package process supervises a running server child process.
//
// A Server moves through NotStarted, Running, and one of the terminal
// states Exited or Crashed. Exactly one goroutine waits on the child;
// the exit outcome, including the crash-report scan, is recorded before
// the exit broadcast channel closes, so any goroutine observing the exit
// sees a complete Result.
//
// Stdout and stderr are line-scanned into a single bounded channel.
// The producer blocks when the buffer is full, so a slow consumer
// backpressures the scanners, not the child. Callers must keep receiving
// from Lines until it closes.
package process
