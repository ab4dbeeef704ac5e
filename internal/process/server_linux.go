//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr sets Linux-specific attributes on cmd. Pdeathsig
// delivers SIGTERM to the server when the supervising process dies, so an
// abruptly killed session does not orphan a running server.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
}
