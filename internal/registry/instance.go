package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Instance is one persisted registry record. The registry is the single
// owner of these records; other packages read them and request mutations
// through registry operations.
type Instance struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Dir        string    `json:"dir"`
	RuntimeDir string    `json:"runtime_dir,omitempty"`
	ConfigPath string    `json:"config_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastLaunch time.Time `json:"last_launch,omitzero"`
}

func (in Instance) validate() error {
	var errs []error
	if in.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if in.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if in.Version == "" {
		errs = append(errs, errors.New("version must not be empty"))
	}
	if in.Dir == "" {
		errs = append(errs, errors.New("dir must not be empty"))
	}
	return errors.Join(errs...)
}

// maxIDLen bounds derived IDs so they stay comfortable as directory names.
const maxIDLen = 64

// DeriveID maps a human-chosen instance name to a deterministic,
// filesystem-safe identifier: lowercased, runs of separators collapsed to
// one dash, everything outside [a-z0-9._-] dropped.
func DeriveID(name string) (string, error) {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '-':
			pendingDash = true
		}
	}

	id := strings.Trim(b.String(), "-._")
	if len(id) > maxIDLen {
		id = strings.Trim(id[:maxIDLen], "-._")
	}
	if id == "" {
		return "", fmt.Errorf("instance name %q yields an empty id", name)
	}
	return id, nil
}
