// Package cleanup removes stale delivery archives before a run.
package cleanup

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// RemoveArchives deletes every .zip file directly inside dir and returns how
// many were removed. A missing directory is not an error; individual
// deletion failures are logged and skipped.
func RemoveArchives(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("cleanup: cannot read output dir", "dir", dir, "error", err)
		}
		return 0
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("cleanup: cannot remove archive", "path", path, "error", err)
			continue
		}
		slog.Info("cleanup: removed old archive", "name", e.Name())
		removed++
	}
	return removed
}
