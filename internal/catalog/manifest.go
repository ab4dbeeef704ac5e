package catalog

import "time"

// manifest mirrors the version manifest document published at the catalog
// endpoint. Only the fields the catalog consumes are declared.
type manifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []manifestEntry `json:"versions"`
}

type manifestEntry struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	ReleaseTime time.Time `json:"releaseTime"`
}

// versionMeta mirrors the per-version metadata document linked from the
// manifest. It carries the downloadable artifacts and the Java requirement.
type versionMeta struct {
	Downloads map[string]struct {
		URL  string `json:"url"`
		SHA1 string `json:"sha1"`
		Size int64  `json:"size"`
	} `json:"downloads"`
	JavaVersion struct {
		MajorVersion int `json:"majorVersion"`
	} `json:"javaVersion"`
}

// downloadServer is the key of the dedicated server artifact within a
// version metadata document.
const downloadServer = "server"
