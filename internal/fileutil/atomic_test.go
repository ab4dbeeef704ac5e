package fileutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes content with requested mode", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "registry.json")

		if err := WriteFileAtomic(path, []byte(`{"schema":1}`), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != `{"schema":1}` {
			t.Errorf("content = %q, want %q", got, `{"schema":1}`)
		}

		if runtime.GOOS != "windows" {
			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Mode().Perm() != 0o644 {
				t.Errorf("mode = %v, want 0644", info.Mode().Perm())
			}
		}
	})

	t.Run("replaces existing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "eula.txt")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}

		if err := WriteFileAtomic(path, []byte("eula=true"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if string(got) != "eula=true" {
			t.Errorf("content = %q, want %q", got, "eula=true")
		}
	})

	t.Run("creates missing parent directory", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "deeper", "file.txt")

		if err := WriteFileAtomic(path, []byte("x"), 0o600); err != nil {
			t.Fatalf("WriteFileAtomic() error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("stat: %v", err)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "file.txt")

		if err := WriteFileAtomic(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("read dir: %v", err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".tmp-write-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})

	t.Run("empty path rejected", func(t *testing.T) {
		t.Parallel()

		if err := WriteFileAtomic("", []byte("x"), 0o644); err == nil {
			t.Fatal("expected error for empty path, got nil")
		}
	})
}
