// Package jre provisions Java runtimes on demand.
//
// A Resolver maps a required Java major version to an installed runtime
// rooted under its cache directory. Cache misses are filled from the
// Adoptium API: the newest matching JRE package for the host platform is
// downloaded, digest-verified, and extracted into a staging directory that
// is renamed into the cache in one step. A marker file inside the entry
// records the release, so an entry is only ever observed complete.
//
// Entry creation is guarded by a per-major file lock so concurrent
// processes provision each runtime once. The network download happens
// before the lock is taken; locks are never held across network calls.
package jre
