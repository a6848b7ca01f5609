package latex

import (
	"strings"
)

// PrintRaw serializes a node exactly as it was parsed, PrintRaw(Parse(s)) == s.
func PrintRaw(node Node) string {
	return strings.Join(RawTokens(node), "")
}

// PrintRawSequence serializes a sequence of nodes.
func PrintRawSequence(nodes []Node) string {
	var out strings.Builder
	for _, node := range nodes {
		for _, t := range RawTokens(node) {
			out.WriteString(t)
		}
	}

	return out.String()
}

// RawTokens returns raw text of a node as a list of tokens, concatenation of tokens is PrintRaw(node). Line
// breaks outside of verbatim content are separate "\n" tokens, so that a caller can replace them with layout
// breaks. Verbatim content is always a single token.
func RawTokens(node Node) []string {
	var tokens []string
	rawTokens(node, &tokens)
	return tokens
}

func rawTokens(node Node, out *[]string) {
	text := func(s string) {
		for {
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				break
			}

			if i > 0 {
				*out = append(*out, s[:i])
			}

			*out = append(*out, "\n")
			s = s[i+1:]
		}

		if s != "" {
			*out = append(*out, s)
		}
	}

	sequence := func(nodes []Node) {
		for _, n := range nodes {
			rawTokens(n, out)
		}
	}

	args := func(args []*Argument) {
		for _, arg := range args {
			rawTokens(arg, out)
		}
	}

	switch n := node.(type) {
	case *Root:
		sequence(n.Content)
	case *String:
		text(n.Content)
	case *Whitespace:
		text(n.Raw)
	case *Parbreak:
		text(n.Raw)
	case *Comment:
		text(n.Leading)
		text("%" + n.Content)
		text(n.Suffix)
	case *Macro:
		text(n.Escape + n.Name)
		args(n.Args)
	case *Argument:
		text(n.Space)
		text(n.Open)
		sequence(n.Content)
		text(n.Close)
	case *Group:
		text("{")
		sequence(n.Content)
		text("}")
	case *Environment:
		text("\\begin{" + n.Name + "}")
		args(n.Args)
		sequence(n.Content)
		text("\\end{" + n.Name + "}")
	case *MathEnv:
		text("\\begin{" + n.Name + "}")
		args(n.Args)
		sequence(n.Content)
		text("\\end{" + n.Name + "}")
	case *Verbatim:
		text("\\begin{" + n.Name + "}")
		args(n.Args)
		*out = append(*out, n.Content)
		text("\\end{" + n.Name + "}")
	case *DisplayMath:
		text(n.Open)
		sequence(n.Content)
		text(n.Close)
	case *InlineMath:
		text(n.Open)
		sequence(n.Content)
		text(n.Close)
	case *Verb:
		*out = append(*out, n.Escape+n.Name+n.Marker+n.Content+n.Marker)
	case RawNode:
		*out = append(*out, n.RawText())
	}
}
