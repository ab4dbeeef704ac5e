package mcenv

import "github.com/mcenv/mcenv/internal/core"

// ApplyOptionsForTesting applies opts on top of the package defaults and
// returns the resulting core configuration, letting external tests verify
// option plumbing without constructing a Manager.
func ApplyOptionsForTesting(opts ...Option) core.ManagerConfig {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.toCoreConfig()
}
