// Package workspace locates the CERES workspace a delegator belongs to.
//
// A delegator lives one directory below the workspace root (for example
// <root>/scripts/log_event) and the core installation it hands off to lives
// under <root>/.ceres/core.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// CoreDir is the core installation, relative to the workspace root.
	CoreDir = ".ceres/core"
	// ScriptsDir holds the core entry-point scripts.
	ScriptsDir = CoreDir + "/scripts"
)

// Executable returns the absolute, symlink-free path of the running binary.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return Resolve(exe)
}

// Resolve makes path absolute and follows symlinks.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// RootOf returns the workspace root for a delegator located at path:
// the parent of the directory that holds it.
func RootOf(path string) string {
	return filepath.Dir(filepath.Dir(filepath.Clean(path)))
}

// Locate returns override as an absolute path when it is set, otherwise the
// root derived from the running binary's location.
func Locate(override string) (string, error) {
	if override != "" {
		root, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("resolve root %s: %w", override, err)
		}
		return root, nil
	}
	exe, err := Executable()
	if err != nil {
		return "", err
	}
	return RootOf(exe), nil
}

// Join returns root joined with a slash-separated relative path.
func Join(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
