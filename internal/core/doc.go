// Package core orchestrates the instance lifecycle. It contains the Manager,
// which wires the version catalog, Java runtime resolver, artifact fetcher,
// instance registry and crash-report uploader into the install, uninstall and
// launch operations exposed by the public API.
package core
