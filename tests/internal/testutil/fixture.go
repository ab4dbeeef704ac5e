//go:build integration

// Package testutil provides shared helpers for the integration test
// packages: an in-process stand-in for every remote endpoint mcenv talks to,
// and helpers for scripting server behavior.
package testutil

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/mcenv/mcenv"
	"github.com/mcenv/mcenv/internal/jre"
)

// RuntimeRelease is the release name of the fixture's only Java runtime.
const RuntimeRelease = "jdk-21.0.4+7"

// javaDispatch is the fake java binary inside the fixture runtime archive.
// It executes the file following -jar as a shell script with the remaining
// arguments, so tests script server behavior by writing the jar file.
const javaDispatch = `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "-jar" ]; then
    shift
    jar="$1"
    shift
    exec /bin/sh "$jar" "$@"
  fi
  shift
done
echo "no jar argument" 1>&2
exit 64
`

// fixtureVersion describes one catalog entry the fixture serves.
type fixtureVersion struct {
	channel     string
	releaseTime string
	jar         []byte
}

// Fixture serves the version manifest, per-version metadata, jar downloads,
// the runtime discovery API, the runtime archive and the paste endpoint from
// one in-process HTTP server. It also counts requests per path so tests can
// assert cache behavior.
//
// The catalog holds a snapshot (24w33a) and two releases, 1.21.1 being the
// newest. All versions require Java 21, served by a single runtime archive
// whose java executable dispatches the server jar to /bin/sh.
type Fixture struct {
	srv  *httptest.Server
	base string

	mu   sync.Mutex
	hits map[string]int
}

func defaultVersions() map[string]fixtureVersion {
	return map[string]fixtureVersion{
		"24w33a": {channel: "snapshot", releaseTime: "2024-08-14T10:00:00+00:00", jar: []byte("jar-bytes-24w33a")},
		"1.21.1": {channel: "release", releaseTime: "2024-08-08T12:00:00+00:00", jar: []byte("jar-bytes-1.21.1")},
		"1.20.4": {channel: "release", releaseTime: "2023-12-07T12:00:00+00:00", jar: []byte("jar-bytes-1.20.4")},
	}
}

// NewFixture builds the fixture and starts its HTTP server. Callers own the
// returned fixture and must Close it.
func NewFixture() (*Fixture, error) {
	archive, err := makeRuntimeArchive()
	if err != nil {
		return nil, fmt.Errorf("building runtime archive: %w", err)
	}
	archiveSHA := sha256.Sum256(archive)
	versions := defaultVersions()

	f := &Fixture{hits: make(map[string]int)}

	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, _ *http.Request) {
		type entry struct {
			ID          string `json:"id"`
			Type        string `json:"type"`
			URL         string `json:"url"`
			ReleaseTime string `json:"releaseTime"`
		}
		doc := struct {
			Latest   map[string]string `json:"latest"`
			Versions []entry           `json:"versions"`
		}{Latest: map[string]string{"release": "1.21.1", "snapshot": "24w33a"}}
		for id, v := range versions {
			doc.Versions = append(doc.Versions, entry{
				ID:          id,
				Type:        v.channel,
				URL:         f.base + "/meta/" + id + ".json",
				ReleaseTime: v.releaseTime,
			})
		}
		writeJSON(w, doc)
	})
	mux.HandleFunc("/meta/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSuffix(path.Base(r.URL.Path), ".json")
		v, ok := versions[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		digest := sha1.Sum(v.jar)
		writeJSON(w, map[string]any{
			"downloads": map[string]any{
				"server": map[string]any{
					"url":  f.base + "/jars/" + id,
					"sha1": hex.EncodeToString(digest[:]),
					"size": len(v.jar),
				},
			},
			"javaVersion": map[string]any{"majorVersion": 21},
		})
	})
	mux.HandleFunc("/jars/", func(w http.ResponseWriter, r *http.Request) {
		v, ok := versions[path.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(v.jar)
	})
	platform := jre.HostPlatform()
	mux.HandleFunc("/v3/assets/latest/21/hotspot", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{{
			"binary": map[string]any{
				"architecture": platform.Arch,
				"image_type":   "jre",
				"os":           platform.OS,
				"updated_at":   "2024-07-16T00:00:00Z",
				"package": map[string]any{
					"checksum": hex.EncodeToString(archiveSHA[:]),
					"link":     f.base + "/runtime.tar.gz",
					"name":     "fixture-jre-21.tar.gz",
					"size":     len(archive),
				},
			},
			"release_name": RuntimeRelease,
			"version":      map[string]any{"semver": "21.0.4+7", "build": 7},
		}})
	})
	mux.HandleFunc("/runtime.tar.gz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostFormValue("content") == "" {
			writeJSON(w, map[string]any{"success": false, "error": "missing content"})
			return
		}
		writeJSON(w, map[string]any{"success": true, "id": "abc123", "url": "https://mclo.gs/abc123"})
	})

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.count(r.URL.Path)
		mux.ServeHTTP(w, r)
	}))
	f.base = f.srv.URL
	return f, nil
}

// Close shuts the fixture's HTTP server down.
func (f *Fixture) Close() {
	f.srv.Close()
}

// Options wires a manager rooted at root to the fixture, with retry and
// supervision timings suited to tests.
func (f *Fixture) Options(root string) []mcenv.Option {
	return []mcenv.Option{
		mcenv.WithRootDir(root),
		mcenv.WithManifestURL(f.base + "/manifest.json"),
		mcenv.WithRuntimeAPIURL(f.base),
		mcenv.WithUploadURL(f.base + "/upload"),
		mcenv.WithMaxConcurrentDownloads(2),
		mcenv.WithRetryWait(time.Millisecond, 10*time.Millisecond),
		mcenv.WithMetadataTTL(time.Minute),
		mcenv.WithTerminationGrace(5 * time.Second),
		mcenv.WithLineBuffer(32),
	}
}

// Hits returns how many requests the fixture has served for the given path.
func (f *Fixture) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *Fixture) count(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[path]++
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// makeRuntimeArchive builds a tar.gz runtime package whose java executable
// is the jar dispatch script, laid out for the host platform.
func makeRuntimeArchive() ([]byte, error) {
	javaRel := "bin/java"
	switch runtime.GOOS {
	case "darwin":
		javaRel = "Contents/Home/bin/java"
	case "windows":
		javaRel = "bin/java.exe"
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	dirs := []string{RuntimeRelease}
	for _, part := range strings.Split(path.Dir(javaRel), "/") {
		dirs = append(dirs, path.Join(dirs[len(dirs)-1], part))
	}
	for _, dir := range dirs {
		if err := tw.WriteHeader(&tar.Header{Name: dir + "/", Typeflag: tar.TypeDir, Mode: 0o755}); err != nil {
			return nil, err
		}
	}
	err := tw.WriteHeader(&tar.Header{
		Name:     path.Join(RuntimeRelease, javaRel),
		Typeflag: tar.TypeReg,
		Mode:     0o755,
		Size:     int64(len(javaDispatch)),
	})
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(tw, javaDispatch); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
