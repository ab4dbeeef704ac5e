package mcenv

import (
	"github.com/mcenv/mcenv/internal/core"
	"github.com/mcenv/mcenv/internal/fetch"
	"github.com/mcenv/mcenv/internal/registry"
)

// Instance is one registered server instance: its identity, the version it
// was installed from and where it lives on disk.
type Instance = registry.Instance

// InstallOptions tunes a single Install call. The zero value is a plain
// install: ID derived from the name, failing on duplicates, no progress
// reporting.
type InstallOptions = core.InstallOptions

// LaunchOptions tunes a single Launch call. The zero value launches with no
// stdin attached.
type LaunchOptions = core.LaunchOptions

// ProgressFunc receives download progress while an install fetches the
// server jar. written only increases; total is 0 when the size is unknown.
// Called from the download goroutine; implementations should return quickly.
type ProgressFunc = fetch.ProgressFunc

// DeriveInstanceID maps a human-chosen instance name to the deterministic,
// filesystem-safe identifier Install derives when InstallOptions.ID is
// empty: lowercased, separator runs collapsed to one dash, everything
// outside [a-z0-9._-] dropped.
//
// Returns an error when nothing of the name survives the mapping.
func DeriveInstanceID(name string) (string, error) {
	return registry.DeriveID(name)
}
