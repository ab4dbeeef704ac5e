package registry

import (
	"strings"
	"testing"
)

func TestDeriveID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "survival", want: "survival"},
		{name: "spaces become dashes", in: "My Server", want: "my-server"},
		{name: "surrounding whitespace trimmed", in: "  Survival World  ", want: "survival-world"},
		{name: "separator runs collapse", in: "a - -  b", want: "a-b"},
		{name: "dots and underscores kept", in: "UPPER_case.01", want: "upper_case.01"},
		{name: "punctuation dropped", in: "creative! (backup)", want: "creative-backup"},
		{name: "non-ascii dropped", in: "café au lait", want: "caf-au-lait"},
		{name: "leading dot stripped", in: ".hidden", want: "hidden"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := DeriveID(tc.in)
			if err != nil {
				t.Fatalf("DeriveID(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("DeriveID(%q) = %q, want %q", tc.in, got, tc.want)
			}

			again, err := DeriveID(tc.in)
			if err != nil || again != got {
				t.Errorf("DeriveID is not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestDeriveID_Empty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "---", "!!!", "..."} {
		if id, err := DeriveID(in); err == nil {
			t.Errorf("DeriveID(%q) = %q, want error", in, id)
		}
	}
}

func TestDeriveID_Length(t *testing.T) {
	t.Parallel()

	id, err := DeriveID(strings.Repeat("a", 200) + " tail")
	if err != nil {
		t.Fatalf("DeriveID: %v", err)
	}
	if len(id) > maxIDLen {
		t.Errorf("len(id) = %d, want <= %d", len(id), maxIDLen)
	}
}
