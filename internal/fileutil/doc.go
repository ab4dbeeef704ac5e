// Package fileutil provides filesystem helpers shared across the engine.
//
// EnsureDir creates directories recursively, WriteFileAtomic writes files via
// a same-directory temp file plus rename so readers never observe partial
// content, and AcquireLock wraps advisory file locking for state shared
// between concurrent operations (the instance registry and the runtime cache).
package fileutil
