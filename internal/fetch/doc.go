// Package fetch downloads artifacts to disk with integrity verification.
//
// Fetcher streams HTTP responses to a temp file alongside the destination
// while hashing incrementally, renames into place only after the digest
// matches, and bounds concurrent transfers with a weighted semaphore. A
// transient failure or a digest mismatch is retried once; permanent HTTP
// statuses fail immediately. The package also provides the retryable HTTP
// client constructor and JSON GET helper shared by the manifest clients.
package fetch
