package jre

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/codeclysm/extract/v4"
)

// extractArchive unpacks the runtime archive at src into dest, stripping the
// single top-level directory the packages wrap their content in. The format
// (tar.gz on linux and mac, zip on windows) is detected from the stream.
func extractArchive(ctx context.Context, src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open runtime archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := extract.Archive(ctx, f, dest, stripRoot); err != nil {
		return fmt.Errorf("extract runtime archive %s: %w", src, err)
	}
	return nil
}

// stripRoot drops the first path component of an archive entry, so
// "jdk-17.0.8+7/bin/java" lands at "bin/java". The root directory entry
// itself maps to the destination.
func stripRoot(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return ""
}
