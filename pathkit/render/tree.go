// Package render produces indented text listings of directory subtrees.
package render

import (
	"errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ZanzyTHEbar/pathkit/pathkit/resolve"
)

// Tree builds a pretty-printable listing of the subtree rooted at root as a
// lazy, finite sequence of lines. Example usage:
//
//	for line := range render.Tree(root) {
//		fmt.Println(line)
//	}
//
// Each iteration re-traverses the filesystem, so the sequence reflects the
// state at traversal time; concurrent external mutation of the tree is not
// guarded against. If root is not a directory the sequence yields exactly
// its base name. Unreadable subdirectories are logged and skipped.
func Tree(root resolve.CanonicalPath, opts ...Option) iter.Seq[string] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return func(yield func(string) bool) {
		info, err := os.Stat(root.String())
		if err != nil {
			slog.Warn("failed to stat tree root", "path", root, "error", err)
			yield(root.Base())
			return
		}
		if !info.IsDir() {
			yield(root.Base())
			return
		}
		if !yield(root.Base()) {
			return
		}
		w := walker{root: root, opts: o, ignore: loadIgnore(root, o.ignoreFile)}
		w.walk(root, "", 1, yield)
	}
}

// Render materializes Tree into a single newline-joined string.
func Render(root resolve.CanonicalPath, opts ...Option) string {
	var lines []string
	for line := range Tree(root, opts...) {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

type walker struct {
	root   resolve.CanonicalPath
	opts   options
	ignore *ignore.GitIgnore
}

// walk yields one line per entry of dir, prefix carrying the accumulated
// connector state of every ancestor level. Returns false once the consumer
// stops the iteration.
func (w *walker) walk(dir resolve.CanonicalPath, prefix string, depth int, yield func(string) bool) bool {
	if w.opts.maxDepth > 0 && depth > w.opts.maxDepth {
		return true
	}

	entries, err := os.ReadDir(dir.String())
	if err != nil {
		slog.Warn("skipping unreadable directory", "path", dir, "error", err)
		return true
	}

	kept := entries[:0:0]
	for _, entry := range entries {
		if w.ignored(dir.Join(entry.Name())) {
			continue
		}
		kept = append(kept, entry)
	}

	g := w.opts.glyphs
	for i, entry := range kept {
		pointer, extension := g.tee, g.branch
		if i == len(kept)-1 {
			pointer, extension = g.last, g.space
		}
		if !yield(prefix + pointer + entry.Name()) {
			return false
		}
		if entry.IsDir() {
			if !w.walk(dir.Join(entry.Name()), prefix+extension, depth+1, yield) {
				return false
			}
		}
	}
	return true
}

func (w *walker) ignored(path resolve.CanonicalPath) bool {
	if w.ignore == nil {
		return false
	}
	rel, err := filepath.Rel(w.root.String(), path.String())
	if err != nil {
		return false
	}
	return w.ignore.MatchesPath(rel)
}

// loadIgnore compiles the ignore file at the tree root, if present.
func loadIgnore(root resolve.CanonicalPath, name string) *ignore.GitIgnore {
	if name == "" {
		return nil
	}
	ignorePath := root.Join(name).String()
	if _, err := os.Stat(ignorePath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to check ignore file", "path", ignorePath, "error", err)
		}
		return nil
	}
	ign, err := ignore.CompileIgnoreFile(ignorePath)
	if err != nil {
		slog.Warn("failed to compile ignore file", "path", ignorePath, "error", err)
		return nil
	}
	return ign
}
