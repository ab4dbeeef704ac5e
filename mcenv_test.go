package mcenv_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcenv/mcenv"
)

func TestNewManagerPerformsNoIO(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "mcenv-root")
	mcenv.NewManager(mcenv.WithRootDir(root))

	if _, err := os.Stat(root); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("NewManager created the root directory (stat err = %v)", err)
	}
}

func TestInstanceDirIsUnderRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	mgr := mcenv.NewManager(mcenv.WithRootDir(root))

	dir := mgr.InstanceDir("survival")
	if !strings.HasPrefix(dir, root+string(filepath.Separator)) {
		t.Errorf("InstanceDir(%q) = %q, want a path under %q", "survival", dir, root)
	}
	if got := filepath.Base(dir); got != "survival" {
		t.Errorf("InstanceDir basename = %q, want %q", got, "survival")
	}
}

func TestLookupsOnEmptyRoot(t *testing.T) {
	t.Parallel()

	mgr := mcenv.NewManager(mcenv.WithRootDir(t.TempDir()))
	ctx := t.Context()

	instances, err := mgr.Instances(ctx)
	if err != nil {
		t.Fatalf("Instances() error = %v", err)
	}
	if len(instances) != 0 {
		t.Errorf("Instances() on empty root returned %d records", len(instances))
	}

	if _, err := mgr.Instance(ctx, "nope"); !errors.Is(err, mcenv.ErrInstanceNotFound) {
		t.Errorf("Instance(nope) error = %v, want ErrInstanceNotFound", err)
	}
	if _, err := mgr.Launch(ctx, "nope", mcenv.LaunchOptions{}); !errors.Is(err, mcenv.ErrInstanceNotFound) {
		t.Errorf("Launch(nope) error = %v, want ErrInstanceNotFound", err)
	}
	if err := mgr.Uninstall(ctx, "nope"); !errors.Is(err, mcenv.ErrInstanceNotFound) {
		t.Errorf("Uninstall(nope) error = %v, want ErrInstanceNotFound", err)
	}
}

func TestDeriveInstanceID(t *testing.T) {
	t.Parallel()

	id, err := mcenv.DeriveInstanceID("My Survival World!")
	if err != nil {
		t.Fatalf("DeriveInstanceID() error = %v", err)
	}
	if id != "my-survival-world" {
		t.Errorf("DeriveInstanceID() = %q, want %q", id, "my-survival-world")
	}

	if _, err := mcenv.DeriveInstanceID("!!!"); err == nil {
		t.Error("DeriveInstanceID(\"!!!\") did not fail")
	}
}
