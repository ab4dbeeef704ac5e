package mcenv

import "time"

// Default configuration values applied by NewManager. Every one of them can
// be overridden with the corresponding With* option.
const (
	// DefaultManifestURL is Mojang's published version manifest.
	DefaultManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest.json"

	// DefaultRuntimeAPIURL is the Adoptium (Temurin) discovery API used to
	// locate Java runtime archives.
	DefaultRuntimeAPIURL = "https://api.adoptium.net"

	// DefaultUploadURL is the mclo.gs paste endpoint crash reports are
	// uploaded to.
	DefaultUploadURL = "https://api.mclo.gs/1/log"

	// DefaultRootDirName is the directory name used under the user's home
	// directory when no root is configured.
	DefaultRootDirName = ".mcenv"

	// DefaultMaxConcurrentDownloads bounds artifact transfers in flight at
	// once, across all concurrent installs on one manager.
	DefaultMaxConcurrentDownloads = 3

	// DefaultRetryWaitMin and DefaultRetryWaitMax bound the backoff between
	// HTTP retry attempts.
	DefaultRetryWaitMin = 500 * time.Millisecond
	DefaultRetryWaitMax = 5 * time.Second

	// DefaultMetadataTTL is how long version metadata and runtime discovery
	// responses are served from memory before being fetched again.
	DefaultMetadataTTL = 10 * time.Minute

	// DefaultTerminationGrace is how long Terminate waits after the polite
	// stop signal before forcing the server process to exit. Minecraft
	// servers save all loaded chunks on SIGTERM, which can take a while on
	// a large world.
	DefaultTerminationGrace = 10 * time.Second

	// DefaultLineBuffer is the capacity of a launched server's output
	// channel.
	DefaultLineBuffer = 256
)
