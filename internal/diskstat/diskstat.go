// Package diskstat measures on-disk repository size for the storage circuit
// breaker.
package diskstat

import (
	"io/fs"
	"path/filepath"
)

// DirSize returns the total size in bytes of regular files under root.
// Symlinks and unreadable entries are skipped; partial answers are fine for
// a ceiling check.
func DirSize(root string) int64 {
	var total int64
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}

// CeilingReached reports whether root already occupies maxMB megabytes or
// more. A non-positive ceiling disables the breaker.
func CeilingReached(root string, maxMB int) bool {
	if maxMB <= 0 {
		return false
	}
	return DirSize(root) >= int64(maxMB)*1024*1024
}
