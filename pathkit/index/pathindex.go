// Package index maintains a set of known root directories with fast
// covering-ancestor queries.
package index

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/armon/go-radix"

	"github.com/ZanzyTHEbar/pathkit/pathkit/resolve"
)

// Stats tracks usage counters for a PathIndex.
type Stats struct {
	TotalDirs  int64
	Lookups    int64
	Insertions int64
	Deletions  int64
}

// PathIndex stores canonical directories in a compressed trie (patricia
// tree), giving O(k) exact and covering-ancestor lookups where k is the
// length of the queried path. Callers that repeatedly ask "which known root
// covers this path" use this instead of re-running algebra.CommonAncestor
// against the full set. Safe for concurrent use.
type PathIndex struct {
	tree    *radix.Tree
	mu      sync.RWMutex
	statsMu sync.Mutex
	stats   Stats
}

// New creates an empty PathIndex.
func New() *PathIndex {
	return &PathIndex{tree: radix.New()}
}

// Insert adds a canonical directory to the index. Inserting a directory
// that is already present is a no-op.
func (idx *PathIndex) Insert(dir resolve.CanonicalPath) error {
	if !dir.IsAbs() {
		return fmt.Errorf("invalid input: %q is not an absolute path", dir)
	}

	idx.mu.Lock()
	_, updated := idx.tree.Insert(indexKey(dir), dir)
	idx.mu.Unlock()

	idx.statsMu.Lock()
	if !updated {
		idx.stats.TotalDirs++
	}
	idx.stats.Insertions++
	total := idx.stats.TotalDirs
	idx.statsMu.Unlock()

	slog.Debug("path index insertion completed",
		"path", dir,
		"was_update", updated,
		"total_dirs", total)
	return nil
}

// Contains reports whether dir itself was inserted.
func (idx *PathIndex) Contains(dir resolve.CanonicalPath) bool {
	idx.statsMu.Lock()
	idx.stats.Lookups++
	idx.statsMu.Unlock()

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, found := idx.tree.Get(indexKey(dir))
	return found
}

// Covering returns the deepest indexed directory that is an ancestor of
// path (or path itself, if indexed).
func (idx *PathIndex) Covering(path resolve.CanonicalPath) (resolve.CanonicalPath, bool) {
	idx.statsMu.Lock()
	idx.stats.Lookups++
	idx.statsMu.Unlock()

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, value, found := idx.tree.LongestPrefix(indexKey(path))
	if !found {
		return "", false
	}
	return value.(resolve.CanonicalPath), true
}

// Remove deletes a directory from the index, reporting whether it was
// present.
func (idx *PathIndex) Remove(dir resolve.CanonicalPath) bool {
	idx.mu.Lock()
	_, deleted := idx.tree.Delete(indexKey(dir))
	idx.mu.Unlock()

	if deleted {
		idx.statsMu.Lock()
		idx.stats.TotalDirs--
		idx.stats.Deletions++
		idx.statsMu.Unlock()
	}
	return deleted
}

// Len returns the number of indexed directories.
func (idx *PathIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.tree.Len()
}

// GetStats returns a snapshot of the index counters.
func (idx *PathIndex) GetStats() Stats {
	idx.statsMu.Lock()
	defer idx.statsMu.Unlock()
	return idx.stats
}

// indexKey appends a separator so that prefix matches only occur on whole
// path segments: "/usr/local" must not cover "/usr/localx".
func indexKey(path resolve.CanonicalPath) string {
	s := path.String()
	if strings.HasSuffix(s, "/") {
		return s
	}
	return s + "/"
}
