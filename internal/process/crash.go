package process

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// crashReportsDir is where the server writes crash artifacts, relative to
// the instance root.
const crashReportsDir = "crash-reports"

// findCrashReport returns the newest crash artifact under dir modified at
// or after since. A missing or unreadable crash-reports directory means no
// report.
func findCrashReport(dir string, since time.Time) (CrashReport, bool) {
	entries, err := os.ReadDir(filepath.Join(dir, crashReportsDir))
	if err != nil {
		return CrashReport{}, false
	}

	var (
		best  CrashReport
		found bool
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mt := info.ModTime()
		if mt.Before(since) {
			continue
		}
		if !found || mt.After(best.ModTime) {
			best = CrashReport{
				Path:    filepath.Join(dir, crashReportsDir, e.Name()),
				ModTime: mt,
			}
			found = true
		}
	}
	return best, found
}
