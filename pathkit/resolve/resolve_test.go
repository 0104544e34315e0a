package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalTempDir returns a fully resolved temp dir; on some platforms
// t.TempDir lives behind a symlink (e.g. /tmp), which would skew path
// comparisons below.
func canonicalTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func TestReal(t *testing.T) {
	tmp := canonicalTempDir(t)

	t.Run("existing path is returned canonicalized", func(t *testing.T) {
		file := filepath.Join(tmp, "data.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		// raw "." segment; filepath.Join would pre-clean it
		real, ok, err := Real(tmp+"/./data.txt", true, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(file), real)
	})

	t.Run("missing path without mkdir reports absent, not error", func(t *testing.T) {
		real, ok, err := Real(filepath.Join(tmp, "nope"), true, false)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, real)
	})

	t.Run("checkExists false returns canonical form unconditionally", func(t *testing.T) {
		target := filepath.Join(tmp, "future", "log.txt")
		real, ok, err := Real(target, false, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(target), real)
	})

	t.Run("mkdir creates the full directory chain", func(t *testing.T) {
		target := filepath.Join(tmp, "a", "b", "c")
		real, ok, err := Real(target, true, true)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(target), real)

		info, err := os.Stat(target)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("relative segments are resolved", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(tmp, "x", "y"), 0o755))

		real, ok, err := Real(tmp+"/x/y/..", true, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(filepath.Join(tmp, "x")), real)
	})

	t.Run("symlinks are resolved", func(t *testing.T) {
		realDir := filepath.Join(tmp, "real")
		require.NoError(t, os.Mkdir(realDir, 0o755))
		link := filepath.Join(tmp, "link")
		require.NoError(t, os.Symlink(realDir, link))

		real, ok, err := Real(link, true, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(realDir), real)
	})

	t.Run("symlinked prefix of a missing path is resolved", func(t *testing.T) {
		realDir := filepath.Join(tmp, "real2")
		require.NoError(t, os.Mkdir(realDir, 0o755))
		link := filepath.Join(tmp, "link2")
		require.NoError(t, os.Symlink(realDir, link))

		real, ok, err := Real(filepath.Join(link, "missing", "leaf"), false, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(filepath.Join(realDir, "missing", "leaf")), real)
	})

	t.Run("prefix blocked by a regular file still canonicalizes", func(t *testing.T) {
		blocker := filepath.Join(tmp, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		target := filepath.Join(blocker, "leaf")
		real, ok, err := Real(target, false, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(target), real)

		// With checkExists the same path is absent, not a hard error.
		_, ok, err = Real(target, true, false)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("home shorthand expands", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)
		wantHome, err := filepath.EvalSymlinks(home)
		require.NoError(t, err)

		real, ok, err := Real("~", true, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(wantHome), real)

		real, ok, err = Real(filepath.Join("~", "some", "missing", "entry"), false, false)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, CanonicalPath(filepath.Join(wantHome, "some", "missing", "entry")), real)
	})
}

func TestAssertPath(t *testing.T) {
	tmp := canonicalTempDir(t)

	t.Run("existing path passes", func(t *testing.T) {
		real, err := AssertPath(tmp, false)
		require.NoError(t, err)
		assert.Equal(t, CanonicalPath(tmp), real)
	})

	t.Run("missing path fails with ErrNotFound", func(t *testing.T) {
		_, err := AssertPath(filepath.Join(tmp, "ghost"), false)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("mkdir satisfies the assertion", func(t *testing.T) {
		target := filepath.Join(tmp, "made")
		real, err := AssertPath(target, true)
		require.NoError(t, err)
		assert.Equal(t, CanonicalPath(target), real)
	})
}

func TestAssertFile(t *testing.T) {
	tmp := canonicalTempDir(t)
	file := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	t.Run("regular file passes", func(t *testing.T) {
		real, err := AssertFile(file)
		require.NoError(t, err)
		assert.Equal(t, CanonicalPath(file), real)
	})

	t.Run("directory fails with ErrNotAFile", func(t *testing.T) {
		_, err := AssertFile(tmp)
		assert.ErrorIs(t, err, ErrNotAFile)
	})

	t.Run("missing path fails with ErrNotFound", func(t *testing.T) {
		_, err := AssertFile(filepath.Join(tmp, "ghost"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAssertDir(t *testing.T) {
	tmp := canonicalTempDir(t)
	file := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	t.Run("directory passes", func(t *testing.T) {
		real, err := AssertDir(tmp, false)
		require.NoError(t, err)
		assert.Equal(t, CanonicalPath(tmp), real)
	})

	t.Run("file fails with ErrNotADirectory", func(t *testing.T) {
		_, err := AssertDir(file, false)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("mkdir creates the directory", func(t *testing.T) {
		target := filepath.Join(tmp, "sub", "deeper")
		real, err := AssertDir(target, true)
		require.NoError(t, err)
		assert.Equal(t, CanonicalPath(target), real)
	})
}

func TestCanonicalPathHelpers(t *testing.T) {
	p := CanonicalPath("/usr/local/bin/tool")

	assert.Equal(t, "/usr/local/bin", p.Dir().String())
	assert.Equal(t, "tool", p.Base())
	assert.True(t, p.IsAbs())
	assert.False(t, CanonicalPath("relative/path").IsAbs())
	assert.Equal(t, CanonicalPath("/usr/local/bin/tool/x/y"), p.Join("x", "y"))
}
