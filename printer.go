package latex

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/eolymp/go-latexfmt/doc"
)

// Printer formats a syntax tree. Render info for macros and environments is taken from Info, nodes without
// an entry are printed with conservative defaults. A Printer collects warnings and is not safe for
// concurrent use, use one printer per goroutine.
type Printer struct {
	Width       int // line width, 80 if not set
	IndentWidth int // spaces per indentation level, 2 if not set
	Info        Annotations
	Logger      *slog.Logger

	warnings []PrintWarning
}

// printContext is passed by value, changes made for a subtree are never visible to siblings
type printContext struct {
	refs     *RefMap
	math     bool
	preamble bool // join top-level nodes with line breaks
}

// Print formats node within width columns.
func Print(node Node, width int, info Annotations) string {
	p := &Printer{Width: width, Info: info}
	return p.Print(node)
}

// Print formats node, the result has no trailing whitespace on any line except inside verbatim content.
func (p *Printer) Print(node Node) string {
	width := p.Width
	if width <= 0 {
		width = 80
	}

	step := p.IndentWidth
	if step <= 0 {
		step = 2
	}

	return doc.Render(p.Doc(node), width, step)
}

// Render writes formatted node to w.
func (p *Printer) Render(w io.Writer, node Node) error {
	_, err := io.WriteString(w, p.Print(node))
	return err
}

// Doc builds a layout document for node. A new reference map is built for every call.
func (p *Printer) Doc(node Node) doc.Doc {
	return p.print(node, printContext{refs: NewRefMap(node)})
}

// Warnings returns warnings collected by all calls to the printer.
func (p *Printer) Warnings() []PrintWarning {
	return p.warnings
}

func (p *Printer) warn(node Node, format string, args ...any) {
	w := PrintWarning{Message: fmt.Sprintf(format, args...), Node: node}
	p.warnings = append(p.warnings, w)

	if p.Logger != nil {
		p.Logger.Warn(w.Message, "node", fmt.Sprintf("%T", node), "offset", node.Pos().Start)
	}
}

func (p *Printer) info(node Node) RenderInfo {
	return p.Info[node]
}

func (p *Printer) print(node Node, ctx printContext) doc.Doc {
	switch n := node.(type) {
	case *Root:
		if ctx.refs.Root() != n {
			if ctx.refs.Contains(n) {
				p.warn(n, "reference map rebuilt for nested root")
			}

			ctx.refs = NewRefMap(n)
		}

		ctx.preamble = isPreamble(n.Content)
		return p.sequence(trim(n.Content), ctx)

	case *String:
		return doc.Text(n.Content)

	case *Whitespace:
		return p.whitespace(n, ctx).doc()

	case *Parbreak:
		return paragraphBreak.doc()

	case *Comment:
		return p.sequence([]Node{n}, ctx)

	case *Argument:
		return p.argument(n, ctx)

	case *Macro:
		return p.macro(n, ctx)

	case *Group:
		return p.group(n)

	case *Environment:
		return p.environment(n, n.Name, n.Args, n.Content, ctx)

	case *MathEnv:
		ctx.math = true
		return p.environment(n, n.Name, n.Args, n.Content, ctx)

	case *Verbatim:
		return doc.Concat(
			doc.Text("\\begin{"+n.Name+"}"),
			p.arguments(n.Args, ctx),
			doc.Text(n.Content),
			doc.Text("\\end{"+n.Name+"}"),
		)

	case *DisplayMath:
		ctx.math = true
		return p.block(doc.Text(n.Open), trim(n.Content), doc.Text(n.Close), ctx)

	case *InlineMath:
		ctx.math = true
		return p.inlineMath(n, ctx)

	case *Verb:
		return doc.Text(PrintRaw(n))

	default:
		p.warn(node, "unknown node type %T printed as is", node)
		return doc.Text(PrintRaw(node))
	}
}

// sequence lays out nodes as a paragraph, words are wrapped to fit the line
func (p *Printer) sequence(nodes []Node, ctx printContext) doc.Doc {
	b := &fillBuilder{}
	p.flow(b, nodes, ctx)
	return b.doc()
}

// flow adds nodes to the paragraph under construction. Whitespace, paragraph breaks and breaks around
// comments and environments become separators, everything else is content.
func (p *Printer) flow(b *fillBuilder, nodes []Node, ctx printContext) {
	var prev Node

	// only top-level nodes of a preamble are joined with line breaks
	inner := ctx
	inner.preamble = false

	for _, node := range nodes {
		switch n := node.(type) {
		case *Whitespace:
			b.separator(p.whitespace(n, ctx))
			prev = nil
			continue

		case *Parbreak:
			b.separator(paragraphBreak)
			prev = nil
			continue

		case *Comment:
			p.comment(b, n, ctx)
			prev = n
			continue

		case *Environment, *MathEnv, *DisplayMath, *Verbatim:
			if !b.empty() {
				b.separator(forcedBreak)
			}

		case *Macro:
			if p.info(n).BreakBefore && !b.empty() {
				b.separator(forcedBreak)
			}

			if p.inline(b, n, inner) {
				prev = n
				continue
			}
		}

		if ctx.math && prev != nil && b.open() && breakable(prev, node) {
			// a space after \\ is a line break, so a break here has to be one too
			if p.info(prev).BreakAfter {
				b.separator(forcedBreak)
			} else {
				b.separator(softBreak)
			}
		}

		b.content(p.print(node, inner))
		prev = node
	}
}

// whitespace decides how a space between two nodes is printed. Blocks, like environments, break lines on
// their own, so a space before a block disappears and a space after a block is a line break.
func (p *Printer) whitespace(n *Whitespace, ctx printContext) separator {
	switch {
	case isBlock(ctx.refs.Next(n)):
		return noBreak
	case isBlock(ctx.refs.Previous(n)):
		return forcedBreak
	case ctx.preamble, p.info(ctx.refs.Next(n)).BreakBefore, p.info(ctx.refs.Previous(n)).BreakAfter:
		return forcedBreak
	default:
		return lineBreak
	}
}

func (p *Printer) comment(b *fillBuilder, n *Comment, ctx printContext) {
	text := "%" + strings.TrimRight(n.Content, " \t\r")

	if n.SameLine {
		if n.Leading != "" {
			text = " " + text
		}
	} else if !b.empty() {
		b.separator(forcedBreak)
	}

	b.content(doc.Text(text))

	if ctx.refs.Next(n) != nil && !n.FollowedByParbreak {
		b.separator(forcedBreak)
	}
}

func (p *Printer) macro(n *Macro, ctx printContext) doc.Doc {
	info := p.info(n)
	ctx = withArgumentMode(ctx, info)

	d := doc.Concat(doc.Text(n.Escape+n.Name), p.arguments(n.Args, ctx))
	if info.HangingIndent {
		return doc.Indent(d)
	}

	return d
}

// inline flows a macro marked as part of the paragraph, like \textbf, into the surrounding fill. It returns
// false if the macro has to be printed as a single unit.
func (p *Printer) inline(b *fillBuilder, n *Macro, ctx printContext) bool {
	info := p.info(n)
	if !info.InParMode || ctx.math {
		return false
	}

	ctx = withArgumentMode(ctx, info)

	b.content(doc.Text(n.Escape + n.Name))
	for _, arg := range n.Args {
		if arg.Open == "" {
			b.content(p.argument(arg, ctx))
			continue
		}

		b.content(doc.Text(arg.Open))
		p.flow(b, arg.Content, ctx)

		if endsWithComment(arg.Content) {
			b.separator(forcedBreak)
		}

		b.content(doc.Text(arg.Close))
	}

	return true
}

func (p *Printer) arguments(args []*Argument, ctx printContext) doc.Doc {
	var parts []doc.Doc
	for _, arg := range args {
		parts = append(parts, p.argument(arg, ctx))
	}

	return doc.Concat(parts...)
}

func (p *Printer) argument(arg *Argument, ctx printContext) doc.Doc {
	content := p.sequence(arg.Content, ctx)

	// brace-less argument or star
	if arg.Open == "" {
		if arg.Space != "" {
			return doc.Concat(doc.Text(" "), content)
		}

		return content
	}

	if endsWithComment(arg.Content) {
		content = doc.Concat(content, doc.HardLine)
	}

	return doc.Concat(doc.Text(arg.Open), content, doc.Text(arg.Close))
}

// group prints raw content of the group, line breaks are kept and indentation is taken from the surrounding
func (p *Printer) group(n *Group) doc.Doc {
	var parts []doc.Doc

	newline := false
	for _, t := range RawTokens(n) {
		if t == "\n" {
			parts = append(parts, doc.HardLine)
			newline = true
			continue
		}

		if newline && strings.Trim(t, " \t\r") == "" {
			newline = false
			continue
		}

		newline = false
		parts = append(parts, doc.Text(t))
	}

	return doc.Concat(parts...)
}

func (p *Printer) environment(node Node, name string, args []*Argument, content []Node, ctx printContext) doc.Doc {
	begin := doc.Concat(doc.Text("\\begin{"+name+"}"), p.arguments(args, ctx))
	end := doc.Text("\\end{" + name + "}")

	if p.info(node).AlignContent {
		if body, ok := p.aligned(content, columnSpecs(args)); ok {
			return doc.Concat(begin, body, doc.HardLine, end)
		}
	}

	return p.block(begin, trim(content), end, ctx)
}

// block prints content indented between open and close, each on its own line
func (p *Printer) block(open doc.Doc, content []Node, close doc.Doc, ctx printContext) doc.Doc {
	if len(content) == 0 {
		return doc.Concat(open, doc.HardLine, close)
	}

	body := p.sequence(content, ctx)
	if c, ok := content[0].(*Comment); !ok || !c.SameLine {
		body = doc.Concat(doc.HardLine, body)
	}

	return doc.Concat(open, doc.Indent(body), doc.HardLine, close)
}

// aligned prints rows of an aligned environment padded into columns. It returns false if the content can
// not be aligned, for example because a cell spans multiple lines.
func (p *Printer) aligned(content []Node, specs []ColumnSpec) (doc.Doc, bool) {
	rows := SplitRows(content)
	if !Alignable(rows) {
		return nil, false
	}

	// column spec is only trusted if it describes every column
	if len(specs) != len(ColumnWidths(rows)) {
		specs = nil
	}

	var head doc.Doc

	// a comment right after \begin{...} stays on that line
	if len(rows) > 0 && isCommentRow(rows[0]) && rows[0].TrailingComment.SameLine {
		c := rows[0].TrailingComment
		text := "%" + strings.TrimRight(c.Content, " \t\r")
		if c.Leading != "" {
			text = " " + text
		}

		head = doc.Text(text)
		rows = rows[1:]
	}

	var lines []doc.Doc
	for _, line := range FormatRows(rows, specs) {
		lines = append(lines, doc.HardLine, doc.Text(line))
	}

	return doc.Concat(head, doc.Indent(lines...)), true
}

func (p *Printer) inlineMath(n *InlineMath, ctx printContext) doc.Doc {
	if isBlank(n.Content) {
		// $$ would start display math
		if n.Open == "$" {
			return doc.Text("$ $")
		}

		return doc.Text(n.Open + n.Close)
	}

	content := p.sequence(n.Content, ctx)

	// a comment would swallow the closing delimiter
	if endsWithComment(n.Content) {
		content = doc.Concat(content, doc.HardLine)
	}

	return doc.Concat(doc.Text(n.Open), content, doc.Text(n.Close))
}

// columnSpecs parses the last mandatory argument of an environment as column spec, like {l|cr} of tabular
func columnSpecs(args []*Argument) []ColumnSpec {
	for i := len(args) - 1; i >= 0; i-- {
		if args[i].Open == "{" {
			return ColumnSpecs(PrintRawSequence(args[i].Content))
		}
	}

	return nil
}

func withArgumentMode(ctx printContext, info RenderInfo) printContext {
	switch info.Mode {
	case TextMode:
		ctx.math = false
	case MathMode:
		ctx.math = true
	}

	return ctx
}

// isBlock returns true for nodes which are printed on their own lines
func isBlock(node Node) bool {
	switch node.(type) {
	case *Environment, *MathEnv, *DisplayMath, *Verbatim:
		return true
	default:
		return false
	}
}

// isPreamble returns true for a sequence with \documentclass
func isPreamble(nodes []Node) bool {
	for _, node := range nodes {
		if m, ok := node.(*Macro); ok && m.Escape == "\\" && m.Name == "documentclass" {
			return true
		}
	}

	return false
}

func isCommentRow(row Row) bool {
	return row.TrailingComment != nil && len(row.Rules) == 0 && len(row.Separators) == 0 && row.RowSeparator == "" &&
		len(row.Cells) == 1 && len(row.Cells[0]) == 0
}

// isBlank reports if nodes are only spaces, a paragraph break is not blank
func isBlank(nodes []Node) bool {
	for _, node := range nodes {
		if _, ok := node.(*Whitespace); !ok {
			return false
		}
	}

	return true
}

func endsWithComment(nodes []Node) bool {
	nodes = trim(nodes)
	if len(nodes) == 0 {
		return false
	}

	_, ok := nodes[len(nodes)-1].(*Comment)
	return ok
}

// breakable reports if a line break between two adjacent nodes in math mode does not change the meaning
func breakable(prev, next Node) bool {
	// sub- and superscripts stick to their base
	if m, ok := next.(*Macro); ok && m.Escape == "" {
		return false
	}

	// a control word followed by a letter needs a space
	if m, ok := prev.(*Macro); ok && len(m.Args) == 0 && m.Name != "" && isLetter(m.Name[0]) {
		raw := PrintRaw(next)
		return raw == "" || !isLetter(raw[0])
	}

	return true
}

type separator int

const (
	noBreak separator = iota
	softBreak
	lineBreak
	forcedBreak
	paragraphBreak
)

func (s separator) doc() doc.Doc {
	switch s {
	case softBreak:
		return doc.SoftLine
	case lineBreak:
		return doc.Line
	case forcedBreak:
		return doc.HardLine
	case paragraphBreak:
		return doc.Concat(doc.HardLine, doc.HardLine)
	default:
		return doc.Text("")
	}
}

// fillBuilder collects alternating content and separators of a fill. Adjacent content is merged into one
// item, adjacent separators collapse into the strongest of them.
type fillBuilder struct {
	parts   []doc.Doc
	current []doc.Doc
	pending separator
	hasSep  bool
}

// empty reports if no content was added yet
func (b *fillBuilder) empty() bool {
	return len(b.parts) == 0 && len(b.current) == 0
}

// open reports if the last thing added was content
func (b *fillBuilder) open() bool {
	return len(b.current) > 0 && !b.hasSep
}

func (b *fillBuilder) content(d doc.Doc) {
	if b.hasSep {
		b.flush()
	}

	b.current = append(b.current, d)
}

func (b *fillBuilder) separator(s separator) {
	if b.hasSep && s <= b.pending {
		return
	}

	b.pending, b.hasSep = s, true
}

func (b *fillBuilder) flush() {
	b.parts = append(b.parts, doc.Concat(b.current...), b.pending.doc())
	b.current = nil
	b.hasSep = false
}

func (b *fillBuilder) doc() doc.Doc {
	if b.hasSep {
		b.flush()
	}

	if len(b.current) > 0 {
		b.parts = append(b.parts, doc.Concat(b.current...))
		b.current = nil
	}

	return doc.Fill(b.parts...)
}
