package mcenv

import (
	"log/slog"

	"github.com/mcenv/mcenv/internal/core"
)

// SetLogger replaces the logger used by all managers. When no logger is set
// (or after SetLogger(nil)), log records go to slog.Default() tagged with a
// component attribute.
//
// Call SetLogger before NewManager: a manager's collaborators capture the
// logger at construction time, so later changes only affect log statements
// made by the manager itself.
//
// To silence the package entirely:
//
//	mcenv.SetLogger(slog.New(slog.DiscardHandler))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
