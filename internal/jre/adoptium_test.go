package jre

import (
	"testing"
	"time"
)

func TestAssetsURL(t *testing.T) {
	t.Parallel()

	got := assetsURL("https://api.example.test", 17, Platform{OS: "linux", Arch: "x64"})
	want := "https://api.example.test/v3/assets/latest/17/hotspot?architecture=x64&image_type=jre&os=linux&vendor=eclipse"
	if got != want {
		t.Errorf("assetsURL = %q, want %q", got, want)
	}
}

func mkAsset(t *testing.T, semverStr string, build int, updated, os, arch, imageType string) asset {
	t.Helper()

	ts, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		t.Fatalf("parse %q: %v", updated, err)
	}

	var a asset
	a.ReleaseName = "jdk-" + semverStr
	a.Version.Semver = semverStr
	a.Version.Build = build
	a.Binary.OS = os
	a.Binary.Architecture = arch
	a.Binary.ImageType = imageType
	a.Binary.UpdatedAt = ts
	a.Binary.Package.Link = "https://example.test/" + a.ReleaseName + ".tar.gz"
	return a
}

func TestPickLatest(t *testing.T) {
	t.Parallel()

	linux := Platform{OS: "linux", Arch: "x64"}

	t.Run("filters platform and image type", func(t *testing.T) {
		t.Parallel()

		assets := []asset{
			mkAsset(t, "17.0.8+7", 7, "2023-08-24T12:00:00Z", "windows", "x64", "jre"),
			mkAsset(t, "17.0.9+9", 9, "2023-10-17T12:00:00Z", "linux", "aarch64", "jre"),
			mkAsset(t, "17.0.9+9", 9, "2023-10-17T12:00:00Z", "linux", "x64", "jdk"),
			mkAsset(t, "17.0.8+7", 7, "2023-08-24T12:00:00Z", "linux", "x64", "jre"),
		}
		got, ok := pickLatest(assets, linux)
		if !ok {
			t.Fatal("pickLatest found nothing")
		}
		if got.ReleaseName != "jdk-17.0.8+7" || got.Binary.OS != "linux" || got.Binary.Architecture != "x64" {
			t.Errorf("picked %s on %s/%s", got.ReleaseName, got.Binary.OS, got.Binary.Architecture)
		}
	})

	t.Run("higher semver wins", func(t *testing.T) {
		t.Parallel()

		assets := []asset{
			mkAsset(t, "17.0.8+7", 7, "2023-12-01T12:00:00Z", "linux", "x64", "jre"),
			mkAsset(t, "17.0.9+9", 9, "2023-10-17T12:00:00Z", "linux", "x64", "jre"),
		}
		got, ok := pickLatest(assets, linux)
		if !ok || got.Version.Semver != "17.0.9+9" {
			t.Errorf("picked %+v, want semver 17.0.9+9", got.Version)
		}
	})

	t.Run("build number breaks semver metadata ties", func(t *testing.T) {
		t.Parallel()

		// Semver precedence ignores the +N part, so these compare equal.
		assets := []asset{
			mkAsset(t, "17.0.9+6", 6, "2023-10-16T12:00:00Z", "linux", "x64", "jre"),
			mkAsset(t, "17.0.9+9", 9, "2023-10-17T12:00:00Z", "linux", "x64", "jre"),
		}
		got, ok := pickLatest(assets, linux)
		if !ok || got.Version.Build != 9 {
			t.Errorf("picked build %d, want 9", got.Version.Build)
		}
	})

	t.Run("updated timestamp breaks full ties", func(t *testing.T) {
		t.Parallel()

		older := mkAsset(t, "17.0.9+9", 9, "2023-10-17T08:00:00Z", "linux", "x64", "jre")
		newerA := mkAsset(t, "17.0.9+9", 9, "2023-10-18T08:00:00Z", "linux", "x64", "jre")
		got, ok := pickLatest([]asset{older, newerA}, linux)
		if !ok || !got.Binary.UpdatedAt.Equal(newerA.Binary.UpdatedAt) {
			t.Errorf("picked updated_at %s, want %s", got.Binary.UpdatedAt, newerA.Binary.UpdatedAt)
		}
	})

	t.Run("missing package link is skipped", func(t *testing.T) {
		t.Parallel()

		broken := mkAsset(t, "17.0.9+9", 9, "2023-10-17T12:00:00Z", "linux", "x64", "jre")
		broken.Binary.Package.Link = ""
		ok17 := mkAsset(t, "17.0.8+7", 7, "2023-08-24T12:00:00Z", "linux", "x64", "jre")

		got, ok := pickLatest([]asset{broken, ok17}, linux)
		if !ok || got.Version.Semver != "17.0.8+7" {
			t.Errorf("picked %+v, want the linked 17.0.8+7", got.Version)
		}
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		assets := []asset{
			mkAsset(t, "17.0.8+7", 7, "2023-08-24T12:00:00Z", "windows", "x64", "jre"),
		}
		if _, ok := pickLatest(assets, linux); ok {
			t.Error("pickLatest matched a foreign platform")
		}
	})
}
