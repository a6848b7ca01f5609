// Package doc is a width-aware layout engine. A document is built from a handful of primitives and rendered
// into text which tries to stay within the given width.
package doc

import (
	"strings"
)

// Doc is a node of a layout document. Docs are immutable once built and can be shared.
type Doc interface {
	// hard reports if the doc always contains a line break, a group with such content never fits on one line
	hard() bool
}

type text string

type line struct {
	soft   bool // renders as nothing in flat mode
	forced bool // always breaks
}

type concat struct {
	parts  []Doc
	breaks bool
}

type indent struct {
	contents Doc
}

type group struct {
	contents Doc
	breaks   bool
}

type fill struct {
	parts  []Doc
	breaks bool
}

var (
	// Line is a space or a line break.
	Line Doc = line{}

	// SoftLine is nothing or a line break.
	SoftLine Doc = line{soft: true}

	// HardLine is always a line break.
	HardLine Doc = line{forced: true}
)

// Text is a literal string. Line breaks inside the text are written as is, without indentation.
func Text(s string) Doc {
	return text(s)
}

// Concat joins docs together.
func Concat(docs ...Doc) Doc {
	return concat{parts: docs, breaks: anyHard(docs)}
}

// Indent increases indentation of line breaks inside the doc.
func Indent(docs ...Doc) Doc {
	return indent{contents: Concat(docs...)}
}

// Group renders contents on one line if they fit into the remaining width, otherwise every Line and
// SoftLine directly inside the group breaks.
func Group(docs ...Doc) Doc {
	contents := Concat(docs...)
	return group{contents: contents, breaks: contents.hard()}
}

// Fill is a greedy word-wrap. Parts alternate between content and separator (content, separator, content,
// ...), a separator breaks only if the next content does not fit on the line.
func Fill(parts ...Doc) Doc {
	return fill{parts: parts, breaks: anyHard(parts)}
}

// Join puts sep between docs.
func Join(sep Doc, docs ...Doc) Doc {
	var parts []Doc
	for i, d := range docs {
		if i > 0 {
			parts = append(parts, sep)
		}

		parts = append(parts, d)
	}

	return Concat(parts...)
}

func (t text) hard() bool {
	return strings.Contains(string(t), "\n")
}

func (l line) hard() bool {
	return l.forced
}

func (c concat) hard() bool {
	return c.breaks
}

func (i indent) hard() bool {
	return i.contents.hard()
}

func (g group) hard() bool {
	return g.breaks
}

func (f fill) hard() bool {
	return f.breaks
}

func anyHard(docs []Doc) bool {
	for _, d := range docs {
		if d != nil && d.hard() {
			return true
		}
	}

	return false
}
