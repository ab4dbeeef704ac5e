// Package catalog resolves game versions against the remote version manifest.
//
// A Catalog fetches the manifest once per Refresh and swaps it in atomically,
// so readers always observe a complete listing. Resolve completes a manifest
// entry into a full descriptor by fetching the per-version metadata document,
// which carries the server artifact location, its digest, and the required
// Java major version; metadata documents are cached in memory with a TTL.
package catalog
