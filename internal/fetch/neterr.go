package fetch

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// Transient reports whether err looks like a transient network failure worth
// retrying: timeouts, connection resets or refusals, broken pipes, and bodies
// cut short of their declared length. Errors already marked with ErrTransient
// also match. Everything else (including local I/O failures such as a full
// disk) is treated as permanent.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	switch {
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EPIPE):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}
