//go:build integration

package testutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcenv/mcenv"
)

// SetupTestLogging configures slog based on the MCENV_LOG_LEVEL environment
// variable. This only affects test runs; the library itself inherits the
// application's logging config.
func SetupTestLogging() {
	levelStr := os.Getenv("MCENV_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "WARN"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))

	mcenv.SetLogger(slog.Default().With("component", "mcenv"))
}

// nameCounter is an atomic counter used by UniqueName to generate instance
// names that are unique across parallel test goroutines.
var nameCounter atomic.Int64

// UniqueName returns an instance name that is unique across all parallel
// tests in this binary.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, nameCounter.Add(1))
}

// ScriptServer replaces an installed instance's server jar with a shell
// script, which the fixture runtime's java dispatcher executes on launch.
func ScriptServer(t *testing.T, inst mcenv.Instance, script string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(inst.Dir, "server.jar"), []byte(script), 0o644); err != nil {
		t.Fatalf("write scripted jar: %v", err)
	}
}

// WaitForLine consumes lines until one containing want appears. It fails the
// test when the channel closes or ten seconds pass first.
func WaitForLine(t *testing.T, lines <-chan string, want string) {
	t.Helper()

	deadline := time.After(10 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("output closed before a line containing %q appeared", want)
			}
			if strings.Contains(line, want) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a line containing %q", want)
		}
	}
}

// DrainLines consumes the channel until it closes and returns everything
// received.
func DrainLines(lines <-chan string) []string {
	var out []string
	for line := range lines {
		out = append(out, line)
	}
	return out
}

// ContainsLine reports whether any line contains want as a substring.
func ContainsLine(lines []string, want string) bool {
	for _, line := range lines {
		if strings.Contains(line, want) {
			return true
		}
	}
	return false
}
