package jre

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcenv/mcenv/internal/fetch"
)

var testPlatform = Platform{OS: "linux", Arch: "x64"}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// makeRuntimeArchive builds a tar.gz shaped like a JRE package: a single
// top-level release directory wrapping the runtime files.
func makeRuntimeArchive(t *testing.T, withJava bool) (data []byte, sha256Hex string) {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	writeDir := func(name string) {
		t.Helper()
		err := tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0o755})
		if err != nil {
			t.Fatalf("write tar dir %s: %v", name, err)
		}
	}
	writeFile := func(name, content string, mode int64) {
		t.Helper()
		err := tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: mode, Size: int64(len(content))})
		if err != nil {
			t.Fatalf("write tar header %s: %v", name, err)
		}
		if _, err := io.WriteString(tw, content); err != nil {
			t.Fatalf("write tar body %s: %v", name, err)
		}
	}

	writeDir("jdk-17.0.8+7/")
	writeDir("jdk-17.0.8+7/bin/")
	if withJava {
		writeFile("jdk-17.0.8+7/bin/java", "#!/bin/sh\nexit 0\n", 0o755)
	}
	writeFile("jdk-17.0.8+7/release", "JAVA_VERSION=\"17.0.8\"\n", 0o644)

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return buf.Bytes(), hex.EncodeToString(sum[:])
}

// jreFixture serves a runtime discovery API plus the archives it links to.
//
// Majors: 17 resolves normally (with a stale duplicate asset to skip), 16
// links an archive without a java executable, 18 advertises a wrong digest,
// 21 returns an empty asset list, everything else 404s.
type jreFixture struct {
	srv *httptest.Server

	apiHits     atomic.Int32
	archiveHits atomic.Int32

	archive    []byte
	archiveSum string
	noJava     []byte
	noJavaSum  string
}

func newJREFixture(t *testing.T) *jreFixture {
	t.Helper()

	f := &jreFixture{}
	f.archive, f.archiveSum = makeRuntimeArchive(t, true)
	f.noJava, f.noJavaSum = makeRuntimeArchive(t, false)

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/assets/latest/", f.handleAssets)
	mux.HandleFunc("/archive/jre.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		f.archiveHits.Add(1)
		_, _ = w.Write(f.archive)
	})
	mux.HandleFunc("/archive/nojava.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(f.noJava)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	return f
}

func (f *jreFixture) handleAssets(w http.ResponseWriter, r *http.Request) {
	f.apiHits.Add(1)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 4 {
		http.NotFound(w, r)
		return
	}
	major := parts[3]

	mk := func(release, semverStr string, build int, link, checksum string, size int) map[string]any {
		return map[string]any{
			"release_name": release,
			"version":      map[string]any{"semver": semverStr, "build": build},
			"binary": map[string]any{
				"os":           testPlatform.OS,
				"architecture": testPlatform.Arch,
				"image_type":   "jre",
				"updated_at":   "2023-08-24T12:00:00Z",
				"package": map[string]any{
					"name":     "OpenJDK-jre_" + release + ".tar.gz",
					"link":     link,
					"checksum": checksum,
					"size":     size,
				},
			},
		}
	}

	var body []map[string]any
	switch major {
	case "17":
		body = []map[string]any{
			mk("jdk-17.0.7+7", "17.0.7+7", 7, f.srv.URL+"/archive/jre.tar.gz", f.archiveSum, len(f.archive)),
			mk("jdk-17.0.8+7", "17.0.8+7", 7, f.srv.URL+"/archive/jre.tar.gz", f.archiveSum, len(f.archive)),
		}
	case "16":
		body = []map[string]any{
			mk("jdk-16.0.2+7", "16.0.2+7", 7, f.srv.URL+"/archive/nojava.tar.gz", f.noJavaSum, len(f.noJava)),
		}
	case "18":
		body = []map[string]any{
			mk("jdk-18.0.2+9", "18.0.2+9", 9, f.srv.URL+"/archive/jre.tar.gz", strings.Repeat("ab", 32), len(f.archive)),
		}
	case "21":
		body = []map[string]any{}
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func newTestResolver(t *testing.T, cacheDir, apiURL string) *Resolver {
	t.Helper()

	fetcher, err := fetch.New(fetch.Config{
		Client:        fetch.NewClient(testLogger(t), 0, 10*time.Millisecond, 20*time.Millisecond, nil),
		MaxConcurrent: 2,
		RetryWait:     10 * time.Millisecond,
		Logger:        testLogger(t),
	})
	if err != nil {
		t.Fatalf("fetch.New: %v", err)
	}

	r, err := New(Config{
		CacheDir:    cacheDir,
		APIURL:      apiURL,
		Client:      fetch.NewClient(testLogger(t), 0, 10*time.Millisecond, 20*time.Millisecond, nil),
		Fetcher:     fetcher,
		MetadataTTL: time.Minute,
		Platform:    testPlatform,
		Logger:      testLogger(t),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	client := fetch.NewClient(nil, 0, time.Millisecond, time.Millisecond, nil)
	fetcher, err := fetch.New(fetch.Config{Client: client, MaxConcurrent: 1, RetryWait: time.Millisecond})
	if err != nil {
		t.Fatalf("fetch.New: %v", err)
	}

	valid := Config{
		CacheDir:    t.TempDir(),
		APIURL:      "http://example.test",
		Client:      client,
		Fetcher:     fetcher,
		MetadataTTL: time.Minute,
	}
	if _, err := New(valid); err != nil {
		t.Fatalf("New(valid): %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing cache dir", mutate: func(c *Config) { c.CacheDir = "" }},
		{name: "missing api url", mutate: func(c *Config) { c.APIURL = "" }},
		{name: "nil client", mutate: func(c *Config) { c.Client = nil }},
		{name: "nil fetcher", mutate: func(c *Config) { c.Fetcher = nil }},
		{name: "zero ttl", mutate: func(c *Config) { c.MetadataTTL = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid
			tc.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("installs runtime on first use", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		cacheDir := t.TempDir()
		r := newTestResolver(t, cacheDir, f.srv.URL)

		rt, err := r.Resolve(ctx, 17)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if rt.Major != 17 {
			t.Errorf("Major = %d, want 17", rt.Major)
		}
		if rt.Release != "jdk-17.0.8+7" {
			t.Errorf("Release = %q, want the newest asset jdk-17.0.8+7", rt.Release)
		}
		if want := filepath.Join(cacheDir, "jre-17-linux-x64"); rt.Home != want {
			t.Errorf("Home = %q, want %q", rt.Home, want)
		}

		info, err := os.Stat(rt.JavaPath)
		if err != nil {
			t.Fatalf("stat java executable: %v", err)
		}
		if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
			t.Errorf("java executable mode = %v, want an executable bit", info.Mode())
		}

		if _, err := os.Stat(filepath.Join(rt.Home, markerName)); err != nil {
			t.Errorf("marker file missing: %v", err)
		}

		leftovers, err := filepath.Glob(filepath.Join(cacheDir, "archives", "*"))
		if err != nil {
			t.Fatalf("glob archives: %v", err)
		}
		if len(leftovers) != 0 {
			t.Errorf("archive dir not cleaned: %v", leftovers)
		}
	})

	t.Run("serves cached entry without network", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		cacheDir := t.TempDir()
		r := newTestResolver(t, cacheDir, f.srv.URL)

		if _, err := r.Resolve(ctx, 17); err != nil {
			t.Fatalf("first Resolve: %v", err)
		}
		if _, err := r.Resolve(ctx, 17); err != nil {
			t.Fatalf("second Resolve: %v", err)
		}
		if hits := f.apiHits.Load(); hits != 1 {
			t.Errorf("api queried %d times, want 1", hits)
		}
		if hits := f.archiveHits.Load(); hits != 1 {
			t.Errorf("archive downloaded %d times, want 1", hits)
		}
	})

	t.Run("fresh resolver reuses an installed entry offline", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		cacheDir := t.TempDir()
		if _, err := newTestResolver(t, cacheDir, f.srv.URL).Resolve(ctx, 17); err != nil {
			t.Fatalf("seed Resolve: %v", err)
		}

		offline := newTestResolver(t, cacheDir, "http://127.0.0.1:1")
		rt, err := offline.Resolve(ctx, 17)
		if err != nil {
			t.Fatalf("offline Resolve: %v", err)
		}
		if rt.Release != "jdk-17.0.8+7" {
			t.Errorf("Release = %q, want jdk-17.0.8+7", rt.Release)
		}
	})

	t.Run("damaged entry is reinstalled", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		cacheDir := t.TempDir()
		r := newTestResolver(t, cacheDir, f.srv.URL)

		rt, err := r.Resolve(ctx, 17)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if err := os.Remove(rt.JavaPath); err != nil {
			t.Fatalf("remove java executable: %v", err)
		}

		rt, err = r.Resolve(ctx, 17)
		if err != nil {
			t.Fatalf("Resolve after damage: %v", err)
		}
		if _, err := os.Stat(rt.JavaPath); err != nil {
			t.Errorf("java executable not restored: %v", err)
		}
		if hits := f.archiveHits.Load(); hits != 2 {
			t.Errorf("archive downloaded %d times, want 2", hits)
		}
	})

	t.Run("unknown major is unavailable", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		r := newTestResolver(t, t.TempDir(), f.srv.URL)

		_, err := r.Resolve(ctx, 99)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("err = %v, want ErrUnavailable", err)
		}
	})

	t.Run("empty asset list is unavailable", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		r := newTestResolver(t, t.TempDir(), f.srv.URL)

		_, err := r.Resolve(ctx, 21)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("err = %v, want ErrUnavailable", err)
		}
	})

	t.Run("digest mismatch leaves no entry", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		cacheDir := t.TempDir()
		r := newTestResolver(t, cacheDir, f.srv.URL)

		_, err := r.Resolve(ctx, 18)
		if !errors.Is(err, fetch.ErrChecksumMismatch) {
			t.Fatalf("err = %v, want ErrChecksumMismatch", err)
		}
		if _, err := os.Stat(filepath.Join(cacheDir, "jre-18-linux-x64")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("entry dir should not exist, stat err = %v", err)
		}
	})

	t.Run("archive without java executable is rejected", func(t *testing.T) {
		t.Parallel()

		f := newJREFixture(t)
		cacheDir := t.TempDir()
		r := newTestResolver(t, cacheDir, f.srv.URL)

		_, err := r.Resolve(ctx, 16)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("err = %v, want ErrUnavailable", err)
		}
		if _, err := os.Stat(filepath.Join(cacheDir, "jre-16-linux-x64")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("entry dir should not exist, stat err = %v", err)
		}
		staging, err := filepath.Glob(filepath.Join(cacheDir, ".staging-jre-16-*"))
		if err != nil {
			t.Fatalf("glob staging: %v", err)
		}
		if len(staging) != 0 {
			t.Errorf("staging dirs not cleaned: %v", staging)
		}
	})

	t.Run("non-positive major is rejected without network", func(t *testing.T) {
		t.Parallel()

		r := newTestResolver(t, t.TempDir(), "http://127.0.0.1:1")
		if _, err := r.Resolve(ctx, 0); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("err = %v, want ErrUnavailable", err)
		}
	})
}
