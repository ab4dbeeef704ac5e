package mcenv

import "github.com/mcenv/mcenv/internal/catalog"

// Channel classifies a version by the stability track it was published on.
type Channel = catalog.Channel

const (
	// ChannelAny matches every channel when used in a Selector or Filter.
	ChannelAny = catalog.ChannelAny

	ChannelRelease  = catalog.ChannelRelease
	ChannelSnapshot = catalog.ChannelSnapshot

	// ChannelBeta and ChannelAlpha cover the pre-2011 legacy versions the
	// manifest still lists.
	ChannelBeta  = catalog.ChannelBeta
	ChannelAlpha = catalog.ChannelAlpha
)

// Version describes one entry of the version catalog. The server artifact
// fields (URL, checksum, size, Java major) are populated on entries returned
// by ResolveVersion and on entries yielded by Versions only as far as the
// manifest carries them.
type Version = catalog.Version

// Selector names the version to resolve. A non-empty ID selects that exact
// version; otherwise the newest version on Channel is chosen. The zero
// Selector resolves the newest version on any channel.
type Selector = catalog.Selector

// Filter narrows a version listing to one channel. The zero Filter matches
// all versions.
type Filter = catalog.Filter
