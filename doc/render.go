package doc

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type mode int

const (
	modeBreak mode = iota
	modeFlat
)

type command struct {
	indent int
	mode   mode
	doc    Doc
}

// Render lays out the doc within width columns, every indentation level adds step spaces. Trailing spaces are
// removed from every line produced by a line break, except for a control space (backslash followed by space).
func Render(d Doc, width, step int) string {
	r := renderer{width: width, step: step}
	r.render(d)
	return string(trimTrailing(r.out))
}

type renderer struct {
	width int
	step  int
	out   []byte
	pos   int // current column
}

func (r *renderer) render(d Doc) {
	cmds := []command{{indent: 0, mode: modeBreak, doc: d}}
	remeasure := false

	push := func(c ...command) {
		cmds = append(cmds, c...)
	}

	for len(cmds) > 0 {
		c := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]

		switch d := c.doc.(type) {
		case nil:
		case text:
			r.write(string(d))

		case concat:
			for i := len(d.parts) - 1; i >= 0; i-- {
				push(command{indent: c.indent, mode: c.mode, doc: d.parts[i]})
			}

		case indent:
			push(command{indent: c.indent + r.step, mode: c.mode, doc: d.contents})

		case group:
			if c.mode == modeFlat && !remeasure {
				m := modeFlat
				if d.breaks {
					m = modeBreak
				}

				push(command{indent: c.indent, mode: m, doc: d.contents})
				break
			}

			remeasure = false

			flat := command{indent: c.indent, mode: modeFlat, doc: d.contents}
			if !d.breaks && fits(flat, cmds, r.width-r.pos, false) {
				push(flat)
			} else {
				push(command{indent: c.indent, mode: modeBreak, doc: d.contents})
			}

		case fill:
			r.fill(c, d, push)

		case line:
			if c.mode == modeFlat && !d.forced {
				if !d.soft {
					r.write(" ")
				}

				break
			}

			if c.mode == modeFlat {
				remeasure = true
			}

			r.newline(c.indent)
		}
	}
}

// fill lays out the first pair of content and separator and schedules the rest of the parts
func (r *renderer) fill(c command, d fill, push func(...command)) {
	if len(d.parts) == 0 {
		return
	}

	rem := r.width - r.pos

	content := d.parts[0]
	contentFlat := command{indent: c.indent, mode: modeFlat, doc: content}
	contentBreak := command{indent: c.indent, mode: modeBreak, doc: content}
	contentFits := fits(contentFlat, nil, rem, true)

	if len(d.parts) == 1 {
		if contentFits {
			push(contentFlat)
		} else {
			push(contentBreak)
		}

		return
	}

	sep := d.parts[1]
	sepFlat := command{indent: c.indent, mode: modeFlat, doc: sep}
	sepBreak := command{indent: c.indent, mode: modeBreak, doc: sep}

	if len(d.parts) == 2 {
		if contentFits {
			push(sepFlat, contentFlat)
		} else {
			push(sepBreak, contentBreak)
		}

		return
	}

	rest := command{indent: c.indent, mode: c.mode, doc: fill{parts: d.parts[2:]}}
	pair := command{indent: c.indent, mode: modeFlat, doc: concat{parts: []Doc{content, sep, d.parts[2]}}}

	switch {
	case fits(pair, nil, rem, true):
		push(rest, sepFlat, contentFlat)
	case contentFits:
		push(rest, sepBreak, contentFlat)
	default:
		push(rest, sepBreak, contentBreak)
	}
}

func (r *renderer) write(s string) {
	r.out = append(r.out, s...)

	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		r.pos = runewidth.StringWidth(s[i+1:])
		return
	}

	r.pos += runewidth.StringWidth(s)
}

func (r *renderer) newline(indent int) {
	r.out = append(trimTrailing(r.out), '\n')
	r.out = append(r.out, strings.Repeat(" ", indent)...)
	r.pos = indent
}

// fits reports if next renders within width columns before the first line break. Commands in rest are
// consulted in their own mode once next is exhausted.
func fits(next command, rest []command, width int, mustBeFlat bool) bool {
	stack := []command{next}
	restIdx := len(rest)

	for width >= 0 {
		if len(stack) == 0 {
			if restIdx == 0 {
				return true
			}

			restIdx--
			stack = append(stack, rest[restIdx])
			continue
		}

		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := c.doc.(type) {
		case text:
			s := string(d)
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				return width-runewidth.StringWidth(s[:i]) >= 0
			}

			width -= runewidth.StringWidth(s)

		case concat:
			for i := len(d.parts) - 1; i >= 0; i-- {
				stack = append(stack, command{indent: c.indent, mode: c.mode, doc: d.parts[i]})
			}

		case indent:
			stack = append(stack, command{indent: c.indent, mode: c.mode, doc: d.contents})

		case group:
			if mustBeFlat && d.breaks {
				return false
			}

			m := c.mode
			if d.breaks {
				m = modeBreak
			}

			stack = append(stack, command{indent: c.indent, mode: m, doc: d.contents})

		case fill:
			for i := len(d.parts) - 1; i >= 0; i-- {
				stack = append(stack, command{indent: c.indent, mode: c.mode, doc: d.parts[i]})
			}

		case line:
			if c.mode == modeBreak || d.forced {
				return true
			}

			if !d.soft {
				width--
			}
		}
	}

	return false
}

// trimTrailing removes spaces and tabs at the end of out, a space escaped by a backslash is kept
func trimTrailing(out []byte) []byte {
	end := len(out)
	for end > 0 && (out[end-1] == ' ' || out[end-1] == '\t') {
		end--
	}

	if end == len(out) {
		return out
	}

	slashes := 0
	for i := end - 1; i >= 0 && out[i] == '\\'; i-- {
		slashes++
	}

	if slashes%2 == 1 {
		end++
	}

	return out[:end]
}
