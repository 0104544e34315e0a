// Package algebra computes relationships between canonical paths: the
// deepest directory covering two or more paths, and the strict shared
// immediate parent.
//
// All inputs must be canonical absolute paths produced by the resolve
// package. Behavior on relative input is undefined except where noted; a
// missing relationship is an ordinary ok=false result, never an error.
package algebra

import (
	"os"
	"slices"

	"github.com/ZanzyTHEbar/pathkit/pathkit/resolve"
)

// syntheticSegment is appended to directory arguments in CommonRoot so that
// files and directories compare at the same depth: a directory is never
// treated as its own ancestor-terminus. The name never touches the
// filesystem.
const syntheticSegment = "\x00"

// CommonRoot finds the deepest directory that is an ancestor of both a and
// b. Directory arguments are compared as if one more nonexistent segment
// were appended, so CommonRoot(a, a) for a file is a's parent and for a
// directory is a itself. Returns false when either input is relative or the
// paths share no ancestor.
func CommonRoot(a, b resolve.CanonicalPath) (resolve.CanonicalPath, bool) {
	if !a.IsAbs() || !b.IsAbs() {
		return "", false
	}
	if isDir(a) {
		a = a.Join(syntheticSegment)
	}
	if isDir(b) {
		b = b.Join(syntheticSegment)
	}

	aParents := ancestors(a)
	bParents := ancestors(b)

	var root resolve.CanonicalPath
	found := false
	for n := range min(len(aParents), len(bParents)) {
		if aParents[n] != bParents[n] {
			break
		}
		root = aParents[n]
		found = true
	}
	return root, found
}

// CommonAncestor returns the deepest directory common to all paths.
// Directories count as themselves, files as their parent. It folds
// CommonRoot pairwise left to right and stops as soon as any pair has no
// common root. An empty sequence has no ancestor.
func CommonAncestor(paths []resolve.CanonicalPath) (resolve.CanonicalPath, bool) {
	var common resolve.CanonicalPath
	have := false

	for _, path := range paths {
		if !isDir(path) {
			path = path.Dir()
		}
		if !have {
			common = path
			have = true
			continue
		}
		if common == path {
			continue
		}
		var ok bool
		common, ok = CommonRoot(common, path)
		if !ok {
			return "", false
		}
	}
	return common, have
}

// CommonParent returns the immediate parent directory shared by every path,
// or false if any two paths differ in immediate parent. This is a stricter,
// shallower relation than CommonAncestor: it succeeds only for siblings.
func CommonParent(paths []resolve.CanonicalPath) (resolve.CanonicalPath, bool) {
	var common resolve.CanonicalPath
	have := false

	for _, path := range paths {
		parent := path.Dir()
		if !have {
			common = parent
			have = true
			continue
		}
		if common != parent {
			return "", false
		}
	}
	return common, have
}

// ancestors returns path's ancestor directories ordered from the filesystem
// root down, excluding path itself.
func ancestors(path resolve.CanonicalPath) []resolve.CanonicalPath {
	var chain []resolve.CanonicalPath
	for cur := path.Dir(); ; cur = cur.Dir() {
		chain = append(chain, cur)
		if cur.Dir() == cur {
			break
		}
	}
	slices.Reverse(chain)
	return chain
}

func isDir(path resolve.CanonicalPath) bool {
	info, err := os.Stat(path.String())
	return err == nil && info.IsDir()
}
