// Package tempfs allocates temporary paths backed by private temp
// directories.
package tempfs

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	internal "github.com/ZanzyTHEbar/pathkit/pathkit"
	"github.com/ZanzyTHEbar/pathkit/pathkit/config"
	"github.com/ZanzyTHEbar/pathkit/pathkit/resolve"
)

// ErrEmptyName is returned when a temporary path is requested with no name.
var ErrEmptyName = errors.New("can't create a temporary path with no name")

// Path creates a named path inside a fresh private temporary directory.
// This differs from os.CreateTemp, which hands back an open file with a
// generated name. The file itself is created only when touch is set;
// otherwise the path is free for the caller to create. cleanup removes the
// whole temporary directory and must be called when the path is no longer
// needed.
func Path(name string, touch bool) (path resolve.CanonicalPath, cleanup func() error, err error) {
	if name == "" {
		return "", nil, ErrEmptyName
	}

	td, err := os.MkdirTemp(baseDir(), internal.DefaultAppName+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	cleanup = func() error { return os.RemoveAll(td) }

	real, err := resolve.AssertDir(td, false)
	if err != nil {
		cleanup()
		return "", nil, err
	}

	path = real.Join(name)
	if touch {
		f, err := os.OpenFile(path.String(), os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			cleanup()
			return "", nil, fmt.Errorf("failed to touch %s: %w", path, err)
		}
		f.Close()
	}
	return path, cleanup, nil
}

// Sibling returns a unique staging path in dest's own directory, suitable
// for write-then-rename updates of dest. The path is not created.
func Sibling(dest resolve.CanonicalPath) resolve.CanonicalPath {
	return dest.Dir().Join(dest.Base() + "." + uuid.NewString())
}

func baseDir() string {
	// Empty means the OS default temp directory.
	return config.AppConfig.PathKit.TempDir
}
