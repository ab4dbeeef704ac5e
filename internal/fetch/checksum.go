package fetch

import (
	"crypto/sha1" //nolint:gosec // G505: the version manifest publishes SHA-1 digests for server jars.
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Algorithm identifies the hash algorithm of an expected artifact digest.
type Algorithm string

const (
	// SHA1 is used by the version manifest for server jar digests.
	SHA1 Algorithm = "sha1"

	// SHA256 is used by the runtime manifest for archive digests.
	SHA256 Algorithm = "sha256"
)

// IsValid reports whether a is a recognized Algorithm value.
func (a Algorithm) IsValid() bool {
	switch a {
	case SHA1, SHA256:
		return true
	default:
		return false
	}
}

// size returns the digest length in bytes.
func (a Algorithm) size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	default:
		return 0
	}
}

// Checksum is an expected content digest: the algorithm plus the hex-encoded
// digest published by the manifest.
type Checksum struct {
	Algorithm Algorithm
	Hex       string
}

// validate checks the algorithm is known and the hex digest decodes to the
// algorithm's digest length.
func (c Checksum) validate() error {
	if !c.Algorithm.IsValid() {
		return fmt.Errorf("unknown checksum algorithm %q", string(c.Algorithm))
	}
	raw, err := hex.DecodeString(c.Hex)
	if err != nil {
		return fmt.Errorf("checksum %q is not valid hex: %w", c.Hex, err)
	}
	if len(raw) != c.Algorithm.size() {
		return fmt.Errorf("checksum %q has %d bytes, %s requires %d", c.Hex, len(raw), c.Algorithm, c.Algorithm.size())
	}
	return nil
}

// hasher returns a fresh hash.Hash for the checksum's algorithm.
// validate must have accepted the checksum first.
func (c Checksum) hasher() hash.Hash {
	switch c.Algorithm {
	case SHA1:
		return sha1.New() //nolint:gosec // G401: digest published by the manifest, not chosen here.
	case SHA256:
		return sha256.New()
	default:
		panic(fmt.Sprintf("mcenv: hasher called with invalid algorithm %q", string(c.Algorithm)))
	}
}
