package mcenv

import (
	"github.com/mcenv/mcenv/internal/catalog"
	"github.com/mcenv/mcenv/internal/fetch"
	"github.com/mcenv/mcenv/internal/jre"
	"github.com/mcenv/mcenv/internal/mclogs"
	"github.com/mcenv/mcenv/internal/process"
	"github.com/mcenv/mcenv/internal/registry"
)

// Sentinel errors returned by Manager and Server operations. They are
// re-exported from the internal packages that produce them so callers can
// match with errors.Is against this package alone.
//
// All of them are constants and may appear wrapped with further context;
// always match with errors.Is rather than equality.
const (
	// ErrCatalogUnavailable indicates the version manifest could not be
	// fetched, after retries.
	ErrCatalogUnavailable = catalog.ErrUnavailable

	// ErrVersionNotFound indicates no catalog entry matched the selector,
	// or the matched entry offers no server artifact.
	ErrVersionNotFound = catalog.ErrNotFound

	// ErrRuntimeUnavailable indicates no Java runtime matching the
	// instance's requirements could be discovered or downloaded.
	ErrRuntimeUnavailable = jre.ErrUnavailable

	// ErrChecksumMismatch indicates a downloaded artifact failed digest
	// verification, after retries. Nothing of the artifact is kept.
	ErrChecksumMismatch = fetch.ErrChecksumMismatch

	// ErrNetworkTransient indicates a download failed in a way that may
	// succeed on a later attempt, after retries were exhausted.
	ErrNetworkTransient = fetch.ErrTransient

	// ErrDuplicateInstance indicates an install targeted an ID that is
	// already registered (and Reinstall was not requested).
	ErrDuplicateInstance = registry.ErrDuplicate

	// ErrInstanceNotFound indicates the given instance ID is not
	// registered.
	ErrInstanceNotFound = registry.ErrNotFound

	// ErrRegistryCorrupt indicates the on-disk registry file could not be
	// parsed. The file is left untouched for manual inspection.
	ErrRegistryCorrupt = registry.ErrCorrupt

	// ErrLaunchFailed indicates the server process could not be started.
	ErrLaunchFailed = process.ErrLaunchFailed

	// ErrUploadFailed indicates the crash-report paste service rejected
	// the upload, or the report file was empty or unreadable.
	ErrUploadFailed = mclogs.ErrUploadFailed
)
