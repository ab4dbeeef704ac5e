package fetch

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
)

// timeoutError mimics the net.Error timeout shape returned by deadline
// expirations in the transport.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestTransient(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want bool
	}{
		"nil":                        {err: nil, want: false},
		"marked transient":           {err: fmt.Errorf("fetch: %w", ErrTransient), want: true},
		"connection reset":           {err: &net.OpError{Op: "read", Err: syscall.ECONNRESET}, want: true},
		"connection refused wrapped": {err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED), want: true},
		"broken pipe":                {err: syscall.EPIPE, want: true},
		"timeout":                    {err: &net.OpError{Op: "read", Err: timeoutError{}}, want: true},
		"body cut short":             {err: io.ErrUnexpectedEOF, want: true},
		"plain error":                {err: errors.New("no such host resolution logic here"), want: false},
		"checksum mismatch":          {err: ErrChecksumMismatch, want: false},
		"local disk failure":         {err: syscall.ENOSPC, want: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := Transient(tc.err); got != tc.want {
				t.Errorf("Transient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestChecksumValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		sum     Checksum
		wantErr bool
	}{
		"valid sha1":      {sum: Checksum{Algorithm: SHA1, Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}},
		"valid sha256":    {sum: Checksum{Algorithm: SHA256, Hex: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"}},
		"wrong length":    {sum: Checksum{Algorithm: SHA256, Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}, wantErr: true},
		"not hex":         {sum: Checksum{Algorithm: SHA1, Hex: "zz39a3ee5e6b4b0d3255bfef95601890afd80709"}, wantErr: true},
		"unknown":         {sum: Checksum{Algorithm: "md5", Hex: "d41d8cd98f00b204e9800998ecf8427e"}, wantErr: true},
		"empty algorithm": {sum: Checksum{Hex: "da39a3ee5e6b4b0d3255bfef95601890afd80709"}, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.sum.validate()
			if tc.wantErr && err == nil {
				t.Error("validate() should have failed")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("validate() error: %v", err)
			}
		})
	}
}
