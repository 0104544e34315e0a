package render

import (
	internal "github.com/ZanzyTHEbar/pathkit/pathkit"
	"github.com/ZanzyTHEbar/pathkit/pathkit/config"
)

// glyphSet holds the four connector strings used to draw the tree.
type glyphSet struct {
	space  string // blank continuation under a last sibling
	branch string // vertical continuation under a non-last sibling
	tee    string // connector for a non-last entry
	last   string // connector for the last entry in a directory
}

var (
	unicodeGlyphs = glyphSet{space: "    ", branch: "│   ", tee: "├── ", last: "└── "}
	asciiGlyphs   = glyphSet{space: "    ", branch: "|   ", tee: "|-- ", last: "`-- "}
)

type options struct {
	glyphs     glyphSet
	ignoreFile string
	maxDepth   int
}

// Option customizes a tree rendering.
type Option func(*options)

// WithIgnoreFile names a gitignore-style file looked up at the tree root;
// entries it matches are omitted from the listing. An empty name disables
// ignore handling.
func WithIgnoreFile(name string) Option {
	return func(o *options) { o.ignoreFile = name }
}

// WithMaxDepth caps descent depth. Entries directly under the root are at
// depth 1; 0 means unlimited.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithASCII selects the plain-ASCII connector set for terminals without
// box-drawing glyphs.
func WithASCII() Option {
	return func(o *options) { o.glyphs = asciiGlyphs }
}

// defaultOptions seeds rendering settings from the loaded application
// config, falling back to package defaults when no config was loaded.
func defaultOptions() options {
	rc := config.AppConfig.PathKit.Render
	o := options{
		glyphs:     unicodeGlyphs,
		ignoreFile: rc.IgnoreFile,
		maxDepth:   rc.MaxDepth,
	}
	if rc.IgnoreFile == "" {
		o.ignoreFile = internal.DefaultIgnoreFile
	}
	if rc.Style == "ascii" {
		o.glyphs = asciiGlyphs
	}
	return o
}
