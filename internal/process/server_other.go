//go:build !linux

package process

import "os/exec"

// configureSysProcAttr is a no-op on platforms without Pdeathsig support.
func configureSysProcAttr(cmd *exec.Cmd) {}
