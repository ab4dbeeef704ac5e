package catalog

import "testing"

func TestParseChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		manifestType string
		want         Channel
	}{
		{manifestType: "release", want: ChannelRelease},
		{manifestType: "snapshot", want: ChannelSnapshot},
		{manifestType: "old_beta", want: ChannelBeta},
		{manifestType: "old_alpha", want: ChannelAlpha},
		{manifestType: "experiment", want: Channel("experiment")},
	}

	for _, tc := range tests {
		t.Run(tc.manifestType, func(t *testing.T) {
			t.Parallel()

			if got := ParseChannel(tc.manifestType); got != tc.want {
				t.Errorf("ParseChannel(%q) = %q, want %q", tc.manifestType, got, tc.want)
			}
		})
	}
}

func TestChannel_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []Channel{ChannelAny, ChannelRelease, ChannelSnapshot, ChannelBeta, ChannelAlpha} {
		if !c.IsValid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if Channel("experiment").IsValid() {
		t.Error("unknown channel should not be valid")
	}
}

func TestChannel_String(t *testing.T) {
	t.Parallel()

	if got := ChannelAny.String(); got != "any" {
		t.Errorf("ChannelAny.String() = %q, want %q", got, "any")
	}
	if got := ChannelBeta.String(); got != "beta" {
		t.Errorf("ChannelBeta.String() = %q, want %q", got, "beta")
	}
}
