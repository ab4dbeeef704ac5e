package fileutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is the interval between consecutive attempts to acquire
// a file lock. 50ms keeps the wait after the holder releases short without
// busy-polling the filesystem.
const lockRetryInterval = 50 * time.Millisecond

// AcquireLock acquires an exclusive advisory lock on the given lock file,
// retrying at lockRetryInterval until it succeeds or ctx is done. The lock
// file is created if missing.
func AcquireLock(ctx context.Context, lockPath string) (*flock.Flock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire file lock %s: %w", lockPath, err)
	}

	if !locked {
		// TryLockContext reports failure through the error return; a
		// (false, nil) result should not happen, but handle it anyway.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire file lock %s: %w", lockPath, ctx.Err())
		}

		return nil, fmt.Errorf("acquire file lock %s: lock not acquired", lockPath)
	}

	return fl, nil
}

// ReleaseLock releases the file lock and closes its descriptor. The lock file
// is left on disk: removing it could invalidate a lock concurrently acquired
// by another process through the same path. Errors are logged at debug level;
// this is best-effort cleanup.
func ReleaseLock(logger *slog.Logger, fl *flock.Flock) {
	if fl != nil {
		if err := fl.Close(); err != nil {
			logger.Debug("failed to release file lock", "path", fl.Path(), "err", err)
		}
	}
}
