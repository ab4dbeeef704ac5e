package jre

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Masterminds/semver/v3"
)

// asset mirrors one element of the runtime API's latest-assets response.
// Only the fields the resolver consumes are declared.
type asset struct {
	Binary struct {
		Architecture string    `json:"architecture"`
		ImageType    string    `json:"image_type"`
		OS           string    `json:"os"`
		UpdatedAt    time.Time `json:"updated_at"`
		Package      struct {
			Checksum string `json:"checksum"`
			Link     string `json:"link"`
			Name     string `json:"name"`
			Size     int64  `json:"size"`
		} `json:"package"`
	} `json:"binary"`
	ReleaseName string `json:"release_name"`
	Version     struct {
		Semver string `json:"semver"`
		Build  int    `json:"build"`
	} `json:"version"`
}

// assetsURL builds the latest-assets query for a Java major version on the
// given platform.
func assetsURL(base string, major int, p Platform) string {
	q := url.Values{}
	q.Set("architecture", p.Arch)
	q.Set("image_type", "jre")
	q.Set("os", p.OS)
	q.Set("vendor", "eclipse")

	return fmt.Sprintf("%s/v3/assets/latest/%d/hotspot?%s", base, major, q.Encode())
}

// pickLatest selects the newest JRE asset matching p. The API usually
// returns a single match for a fully qualified query, but responses have
// carried stale duplicates, so order explicitly rather than trusting the
// first element.
func pickLatest(assets []asset, p Platform) (asset, bool) {
	var (
		best  asset
		found bool
	)
	for _, a := range assets {
		if a.Binary.ImageType != "jre" || a.Binary.OS != p.OS || a.Binary.Architecture != p.Arch {
			continue
		}
		if a.Binary.Package.Link == "" {
			continue
		}
		if !found || newer(a, best) {
			best = a
			found = true
		}
	}
	return best, found
}

// newer reports whether a is a more recent build than b. Semantic versions
// order first; the build number breaks ties because the semver metadata part
// (the "+7" in "17.0.8+7") does not participate in semver precedence.
func newer(a, b asset) bool {
	va, errA := semver.NewVersion(a.Version.Semver)
	vb, errB := semver.NewVersion(b.Version.Semver)
	if errA == nil && errB == nil && !va.Equal(vb) {
		return va.GreaterThan(vb)
	}
	if a.Version.Build != b.Version.Build {
		return a.Version.Build > b.Version.Build
	}
	return a.Binary.UpdatedAt.After(b.Binary.UpdatedAt)
}
