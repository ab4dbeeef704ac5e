package mcenv

import "github.com/mcenv/mcenv/internal/core"

// managerConfig is the package-level configuration that Option functions
// mutate. It embeds core.ManagerConfig so options can set core fields
// directly without the public API exposing the core package.
type managerConfig struct {
	core.ManagerConfig
}

// toCoreConfig unwraps the embedded core configuration for handoff to
// core.NewManagerWithConfig.
func (c managerConfig) toCoreConfig() core.ManagerConfig {
	return c.ManagerConfig
}
