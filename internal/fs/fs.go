// Package fs holds the small filesystem and environment helpers shared by jerify packages.
package fs

import (
	"os"
	"path/filepath"
)

// Abs returns the absolute, cleaned form of path.
func Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// ResolveRelative interprets path relative to baseDir unless it is already absolute.
// An empty path stays empty.
func ResolveRelative(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
