package catalog

// Channel classifies a version by the stability track it was published on.
type Channel string

const (
	// ChannelAny matches every channel when used in a Selector or Filter.
	ChannelAny Channel = ""

	ChannelRelease  Channel = "release"
	ChannelSnapshot Channel = "snapshot"
	ChannelBeta     Channel = "beta"
	ChannelAlpha    Channel = "alpha"
)

// manifest type strings for the legacy channels differ from the names used
// everywhere else.
const (
	manifestTypeBeta  = "old_beta"
	manifestTypeAlpha = "old_alpha"
)

// ParseChannel maps a manifest entry type to its Channel. Unknown types are
// preserved verbatim so exact-ID resolution keeps working when new types
// appear upstream.
func ParseChannel(manifestType string) Channel {
	switch manifestType {
	case manifestTypeBeta:
		return ChannelBeta
	case manifestTypeAlpha:
		return ChannelAlpha
	default:
		return Channel(manifestType)
	}
}

// IsValid reports whether c is one of the known channels.
func (c Channel) IsValid() bool {
	switch c {
	case ChannelAny, ChannelRelease, ChannelSnapshot, ChannelBeta, ChannelAlpha:
		return true
	default:
		return false
	}
}

func (c Channel) String() string {
	if c == ChannelAny {
		return "any"
	}

	return string(c)
}

// matches reports whether a version on channel other passes the filter c.
func (c Channel) matches(other Channel) bool {
	return c == ChannelAny || c == other
}
