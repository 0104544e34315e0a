// Package resolve canonicalizes user-supplied filesystem paths.
//
// Every function returns absolute, symlink-resolved paths. Canonical paths
// are the required input form for the algebra and render packages.
package resolve

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// CanonicalPath is an absolute, symlink-resolved filesystem path. It never
// contains "." or ".." segments. Values are produced by Real and the Assert
// helpers; everything else in this module consumes them read-only.
type CanonicalPath string

// String returns the path as a plain string.
func (p CanonicalPath) String() string { return string(p) }

// Dir returns the path's parent directory.
func (p CanonicalPath) Dir() CanonicalPath { return CanonicalPath(filepath.Dir(string(p))) }

// Base returns the final path component.
func (p CanonicalPath) Base() string { return filepath.Base(string(p)) }

// IsAbs reports whether the path is absolute.
func (p CanonicalPath) IsAbs() bool { return filepath.IsAbs(string(p)) }

// Join appends elements to the path.
func (p CanonicalPath) Join(elem ...string) CanonicalPath {
	return CanonicalPath(filepath.Join(append([]string{string(p)}, elem...)...))
}

// Real cleans path and verifies that it exists.
//
// A leading "~" is expanded to the current user's home directory, then all
// symlinks and relative segments are resolved. The canonical form is computed
// even when the target does not exist (symlinks are resolved for the deepest
// existing prefix, the remainder is appended lexically).
//
// With checkExists false the canonical form is returned unconditionally,
// which is useful for paths about to be created. Otherwise the second return
// is false when the path does not exist and mkdir was not requested; with
// mkdir true the full directory chain is created. Filesystem failures are
// returned as errors, absence is not.
func Real(path string, checkExists, mkdir bool) (CanonicalPath, bool, error) {
	expanded, err := expandUser(path)
	if err != nil {
		return "", false, err
	}

	real, err := realPath(expanded)
	if err != nil {
		return "", false, fmt.Errorf("failed to canonicalize %s: %w", path, err)
	}

	if !checkExists {
		return real, true, nil
	}

	if _, err := os.Stat(string(real)); err == nil {
		return real, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
		return "", false, fmt.Errorf("failed to stat %s: %w", real, err)
	}

	if mkdir {
		slog.Debug("creating directory", "path", real)
		if err := os.MkdirAll(string(real), 0o755); err != nil {
			return "", false, fmt.Errorf("failed to create directory %s: %w", real, err)
		}
		return real, true, nil
	}

	return "", false, nil
}

// AssertPath cleans path and asserts that it exists, creating the directory
// chain first when mkdir is set. A missing path is reported via ErrNotFound.
func AssertPath(path string, mkdir bool) (CanonicalPath, error) {
	real, ok, err := Real(path, true, mkdir)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return real, nil
}

// AssertFile cleans path and asserts that it is a regular file.
func AssertFile(path string) (CanonicalPath, error) {
	real, err := AssertPath(path, false)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(string(real))
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", real, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	return real, nil
}

// AssertDir cleans path and asserts that it is a directory, optionally
// creating it (parents included) when it does not exist.
func AssertDir(path string, mkdir bool) (CanonicalPath, error) {
	real, err := AssertPath(path, mkdir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(string(real))
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", real, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, ErrNotADirectory)
	}
	return real, nil
}

// expandUser replaces a leading "~" with the current user's home directory.
// The "~otheruser" form is not supported.
func expandUser(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}

// realPath converts path to an absolute form with all symlinks resolved.
// Unlike filepath.EvalSymlinks it tolerates missing components: the deepest
// existing ancestor is resolved and the nonexistent remainder is appended.
func realPath(path string) (CanonicalPath, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := evalExisting(abs)
	if err != nil {
		return "", err
	}
	return CanonicalPath(resolved), nil
}

func evalExisting(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	// ENOTDIR means an intermediate component is a regular file; like a
	// missing component, the prefix above it is still resolvable.
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
		return "", err
	}

	parent := filepath.Dir(abs)
	if parent == abs {
		// Filesystem root reported as missing; nothing more to resolve.
		return abs, nil
	}

	resolvedParent, err := evalExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}
