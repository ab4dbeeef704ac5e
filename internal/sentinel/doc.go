// Package sentinel provides a const-declarable error type for sentinel errors.
//
// Sentinel errors built with errors.New must live in vars, which consumers can
// reassign. Error is backed by a plain string, so sentinel values declared with
// it are genuine constants while remaining compatible with errors.Is through
// wrapped error chains.
package sentinel
