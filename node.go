package latex

// Span is a half-open range of byte offsets [Start, End) in the parsed source.
type Span struct {
	Start int
	End   int
}

// Pos returns the span itself, it is promoted to every node embedding Span.
func (s Span) Pos() Span {
	return s
}

// Node is any element of the syntax tree produced by Parse.
type Node interface {
	Pos() Span
}

// RawNode may be implemented by node types unknown to this package, raw and
// pretty printers use RawText to reproduce such nodes.
type RawNode interface {
	Node
	RawText() string
}

// Root is the top of a parsed document.
type Root struct {
	Span
	Content []Node
}

// String is a run of literal text.
type String struct {
	Span
	Content string
}

// Whitespace is one semantic space, Raw keeps the original run of spaces, tabs and at most one newline.
type Whitespace struct {
	Span
	Raw string
}

// Parbreak is a paragraph break, Raw keeps the original blank lines.
type Parbreak struct {
	Span
	Raw string
}

// Comment is a line comment starting with %.
type Comment struct {
	Span
	Leading            string // whitespace between preceding content and %, only set for same line comments
	Content            string // text after % up to the end of line
	Suffix             string // line break and indentation of the next line swallowed by the comment
	SameLine           bool   // non-whitespace precedes the comment on its line
	FollowedByParbreak bool
}

// Macro is a command invocation like \textbf{...}.
type Macro struct {
	Span
	Escape string // "\" for regular macros, "" for ^ and _ in math mode
	Name   string
	Args   []*Argument
}

// Argument is a macro or environment argument.
type Argument struct {
	Span
	Space   string // whitespace skipped between the previous token and the argument
	Open    string // "{", "[" or "" for brace-less and star arguments
	Close   string
	Content []Node
}

// Group is content delimited by braces which is not an argument of a macro.
type Group struct {
	Span
	Content []Node
}

// Environment is \begin{name}...\end{name}.
type Environment struct {
	Span
	Name    string
	Args    []*Argument
	Content []Node
}

// MathEnv is an environment whose content is typeset in math mode, like equation or align.
type MathEnv struct {
	Span
	Name    string
	Args    []*Argument
	Content []Node
}

// Verbatim is an environment whose body is captured literally.
type Verbatim struct {
	Span
	Name    string
	Args    []*Argument
	Content string
}

// DisplayMath is \[...\] or $$...$$.
type DisplayMath struct {
	Span
	Open    string
	Close   string
	Content []Node
}

// InlineMath is $...$ or \(...\).
type InlineMath struct {
	Span
	Open    string
	Close   string
	Content []Node
}

// Verb is an inline verbatim macro like \verb|...|.
type Verb struct {
	Span
	Escape  string
	Name    string // verb, verb* or lstinline
	Marker  string
	Content string
}

// children returns ordered sequences nested directly in the node.
func children(node Node) [][]Node {
	switch n := node.(type) {
	case *Root:
		return [][]Node{n.Content}
	case *Group:
		return [][]Node{n.Content}
	case *Argument:
		return [][]Node{n.Content}
	case *Macro:
		return [][]Node{arguments(n.Args)}
	case *Environment:
		return [][]Node{arguments(n.Args), n.Content}
	case *MathEnv:
		return [][]Node{arguments(n.Args), n.Content}
	case *Verbatim:
		return [][]Node{arguments(n.Args)}
	case *DisplayMath:
		return [][]Node{n.Content}
	case *InlineMath:
		return [][]Node{n.Content}
	default:
		return nil
	}
}

func arguments(args []*Argument) []Node {
	nodes := make([]Node, len(args))
	for i, arg := range args {
		nodes[i] = arg
	}

	return nodes
}
