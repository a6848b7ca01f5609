package latex

import (
	"errors"
)

// Parser builds a syntax tree from LaTeX source. Macro arguments are consumed according to the signatures in
// the registry, a macro missing from the registry takes no arguments.
type Parser struct {
	src      string
	tokens   *Tokenizer
	registry *Registry
	modes    []bool // true for math mode
}

// Parse parses text into a tree, registry may be nil in which case no macro takes arguments.
func Parse(text string, registry *Registry) (*Root, error) {
	return NewParser(text, registry).Parse()
}

func NewParser(text string, registry *Registry) *Parser {
	return &Parser{src: text, tokens: NewTokenizer(text), registry: registry}
}

func (p *Parser) Parse() (*Root, error) {
	content, _, err := p.sequence(func(t Token) bool {
		return t.Kind == EOFToken
	})

	if err != nil {
		return nil, err
	}

	return &Root{Span: Span{0, len(p.src)}, Content: content}, nil
}

// sequence collects nodes until stop returns true for a token (the token is consumed) or until the end of
// input. The last token is returned so the caller can tell these two cases apart.
func (p *Parser) sequence(stop func(Token) bool) (nodes []Node, last Token, err error) {
	for {
		t, err := p.tokens.Token()
		if err != nil {
			return nil, t, err
		}

		if stop(t) || t.Kind == EOFToken {
			return nodes, t, nil
		}

		node, err := p.parse(t)
		if err != nil {
			return nil, t, err
		}

		if _, ok := node.(*Parbreak); ok && len(nodes) > 0 {
			if comment, ok := nodes[len(nodes)-1].(*Comment); ok {
				comment.FollowedByParbreak = true
			}
		}

		nodes = append(nodes, node)
	}
}

func (p *Parser) parse(t Token) (Node, error) {
	switch t.Kind {
	case TextToken, OptionalStart, OptionalEnd:
		return &String{Span: t.Span, Content: t.Text}, nil
	case SpaceToken:
		return &Whitespace{Span: t.Span, Raw: t.Text}, nil
	case ParbreakToken:
		return &Parbreak{Span: t.Span, Raw: t.Text}, nil
	case CommentToken:
		return &Comment{Span: t.Span, Leading: t.Leading, Content: t.Text, Suffix: t.Suffix, SameLine: t.SameLine}, nil
	case SymbolToken:
		// sub- and superscripts are macros without escape in math mode
		if p.inMath() && (t.Text == "^" || t.Text == "_") {
			return p.macro(t, "")
		}

		return &String{Span: t.Span, Content: t.Text}, nil
	case ParameterStart:
		content, err := p.group(t)
		if err != nil {
			return nil, err
		}

		return &Group{Span: Span{t.Start, p.tokens.Pos()}, Content: content}, nil
	case ParameterEnd:
		return nil, newSyntaxError(p.src, t.Start, "unmatched }")
	case MathShift:
		if t.Text == "$$" {
			return p.displayDollar(t)
		}

		return p.inlineMath(t, "$", "$")
	case CommandToken:
		return p.command(t)
	default:
		return nil, newSyntaxError(p.src, t.Start, "unexpected token %q", t.Text)
	}
}

func (p *Parser) command(t Token) (Node, error) {
	switch t.Text {
	case "begin":
		return p.environment(t)
	case "end":
		name, err := p.tokens.ReadEnvironmentName()
		if err != nil {
			return nil, err
		}

		return nil, newSyntaxError(p.src, t.Start, "unexpected \\end{%s}", name)
	case "(":
		return p.inlineMath(t, "\\(", "\\)")
	case "[":
		return p.displayMath(t, "\\[", "\\]")
	case ")", "]":
		return nil, newSyntaxError(p.src, t.Start, "unexpected \\%s", t.Text)
	}

	if e, ok := p.registry.macro(t.Text); ok && e.spec.Verb {
		return p.verb(t)
	}

	return p.macro(t, "\\")
}

// script is the signature of ^ and _ in math mode
var script = macroEntry{args: []ArgSpec{{Kind: MandatoryArg, Open: "{", Close: "}"}}}

// macro reads arguments of a macro as declared by its signature
func (p *Parser) macro(t Token, escape string) (Node, error) {
	node := &Macro{Escape: escape, Name: t.Text}

	e, ok := p.registry.macro(t.Text)
	if escape == "" {
		// bare ^ and _ are not looked up, \_ and \^ follow the registry like any control symbol
		e, ok = script, true
	}

	if ok {
		math := p.inMath()
		switch e.spec.Mode {
		case "text":
			math = false
		case "math":
			math = true
		}

		err := p.withMode(math, func() (err error) {
			node.Args, err = p.arguments(e.args)
			return
		})

		if err != nil {
			return nil, err
		}
	}

	node.Span = Span{t.Start, p.tokens.Pos()}
	return node, nil
}

func (p *Parser) arguments(specs []ArgSpec) (args []*Argument, err error) {
	for _, spec := range specs {
		arg, err := p.argument(spec)
		if err != nil {
			return nil, err
		}

		if arg != nil {
			args = append(args, arg)
		}
	}

	return args, nil
}

// argument reads one argument, it returns nil if the argument is not present
func (p *Parser) argument(spec ArgSpec) (*Argument, error) {
	start := p.tokens.Pos()

	switch spec.Kind {
	case StarArg:
		if p.tokens.PeekByte() != '*' {
			return nil, nil
		}

		t := p.tokens.ReadRune()
		return &Argument{Span: t.Span, Content: []Node{&String{Span: t.Span, Content: t.Text}}}, nil

	case OptionalArg:
		if p.tokens.PeekByte() != '[' {
			return nil, nil
		}

		p.tokens.Reset(start + 1)

		depth := 0
		content, last, err := p.sequence(func(t Token) bool {
			switch t.Kind {
			case OptionalStart:
				depth++
			case OptionalEnd:
				if depth == 0 {
					return true
				}

				depth--
			}

			return false
		})

		if err != nil {
			return nil, err
		}

		if last.Kind == EOFToken {
			return nil, newSyntaxError(p.src, start, "optional argument is not closed")
		}

		return &Argument{Span: Span{start, p.tokens.Pos()}, Open: spec.Open, Close: spec.Close, Content: content}, nil

	default:
		space := p.tokens.SkipSpace()
		char := p.tokens.PeekByte()

		switch {
		case char == '{':
			t, err := p.tokens.Token()
			if err != nil {
				return nil, err
			}

			content, err := p.group(t)
			if err != nil {
				return nil, err
			}

			return &Argument{Span: Span{start, p.tokens.Pos()}, Space: space, Open: spec.Open, Close: spec.Close, Content: content}, nil

		case char == '\\':
			// a single control sequence, like \mathbf\alpha
			t, err := p.tokens.Token()
			if err != nil {
				return nil, err
			}

			if e, ok := p.registry.macro(t.Text); ok && e.spec.Verb || isStructural(t.Text) {
				p.tokens.Reset(start)
				return nil, nil
			}

			node := &Macro{Span: t.Span, Escape: "\\", Name: t.Text}
			return &Argument{Span: Span{start, t.End}, Space: space, Content: []Node{node}}, nil

		case char != 0 && !isSpecial(char) && !isWhitespace(char):
			// a single character, like \frac12
			t := p.tokens.ReadRune()
			return &Argument{Span: Span{start, t.End}, Space: space, Content: []Node{&String{Span: t.Span, Content: t.Text}}}, nil

		default:
			p.tokens.Reset(start)
			return nil, nil
		}
	}
}

// group reads content up to the closing brace, opening brace is already consumed
func (p *Parser) group(open Token) ([]Node, error) {
	content, last, err := p.sequence(func(t Token) bool {
		return t.Kind == ParameterEnd
	})

	if err != nil {
		return nil, err
	}

	if last.Kind == EOFToken {
		return nil, newSyntaxError(p.src, open.Start, "group is not closed")
	}

	return content, nil
}

func (p *Parser) environment(begin Token) (Node, error) {
	name, err := p.tokens.ReadEnvironmentName()
	if err != nil {
		return nil, err
	}

	e, _ := p.registry.environment(name)

	args, err := p.arguments(e.args)
	if err != nil {
		return nil, err
	}

	if e.spec.Verbatim {
		body, _, ok := p.tokens.ReadVerbatimBody(name)
		if !ok {
			return nil, newSyntaxError(p.src, begin.Start, "verbatim environment %q is not closed", name)
		}

		return &Verbatim{Span: Span{begin.Start, p.tokens.Pos()}, Name: name, Args: args, Content: body}, nil
	}

	var content []Node

	err = p.withMode(e.spec.Math || p.inMath(), func() error {
		var last Token
		var err error

		content, last, err = p.sequence(func(t Token) bool {
			return t.is(CommandToken, "end")
		})

		if err != nil {
			return err
		}

		if last.Kind == EOFToken {
			return newSyntaxError(p.src, begin.Start, "environment %q is not closed", name)
		}

		end, err := p.tokens.ReadEnvironmentName()
		if err != nil {
			return err
		}

		if end != name {
			return newSyntaxError(p.src, last.Start, "\\end{%s} does not match \\begin{%s}", end, name)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	span := Span{begin.Start, p.tokens.Pos()}
	if e.spec.Math {
		return &MathEnv{Span: span, Name: name, Args: args, Content: content}, nil
	}

	return &Environment{Span: span, Name: name, Args: args, Content: content}, nil
}

func (p *Parser) inlineMath(open Token, delimiter, closing string) (Node, error) {
	var content []Node
	var last Token

	err := p.withMode(true, func() (err error) {
		content, last, err = p.sequence(func(t Token) bool {
			if closing == "$" {
				return t.Kind == MathShift
			}

			return t.is(CommandToken, ")")
		})

		return
	})

	if err != nil {
		return nil, err
	}

	if last.Kind == EOFToken {
		return nil, newSyntaxError(p.src, open.Start, "inline math is not closed")
	}

	end := last.End
	if last.Text == "$$" {
		// closing $ immediately followed by an opening one
		end = last.Start + 1
		p.tokens.Reset(end)
	}

	return &InlineMath{Span: Span{open.Start, end}, Open: delimiter, Close: closing, Content: content}, nil
}

func (p *Parser) displayMath(open Token, delimiter, closing string) (Node, error) {
	var content []Node
	var last Token

	err := p.withMode(true, func() (err error) {
		content, last, err = p.sequence(func(t Token) bool {
			if closing == "$$" {
				return t.is(MathShift, "$$")
			}

			return t.is(CommandToken, "]")
		})

		return
	})

	if err != nil {
		return nil, err
	}

	if last.Kind == EOFToken {
		return nil, newSyntaxError(p.src, open.Start, "display math is not closed")
	}

	return &DisplayMath{Span: Span{open.Start, last.End}, Open: delimiter, Close: closing, Content: content}, nil
}

// displayDollar reads $$...$$, a $$ which is never closed is an empty inline formula
func (p *Parser) displayDollar(open Token) (Node, error) {
	node, err := p.displayMath(open, "$$", "$$")

	var serr *SyntaxError
	if errors.As(err, &serr) && serr.Offset == open.Start {
		p.tokens.Reset(open.End)
		return &InlineMath{Span: open.Span, Open: "$", Close: "$"}, nil
	}

	return node, err
}

func (p *Parser) verb(t Token) (Node, error) {
	name := t.Text
	if name == "verb" && p.tokens.PeekByte() == '*' {
		p.tokens.Reset(p.tokens.Pos() + 1)
		name = "verb*"
	}

	marker, content, err := p.tokens.ReadVerb()
	if err != nil {
		return nil, err
	}

	return &Verb{Span: Span{t.Start, p.tokens.Pos()}, Escape: "\\", Name: name, Marker: marker, Content: content}, nil
}

// withMode runs fn with the given mode on top of the mode stack, the previous mode is restored on return
func (p *Parser) withMode(math bool, fn func() error) error {
	p.modes = append(p.modes, math)
	defer func() {
		p.modes = p.modes[:len(p.modes)-1]
	}()

	return fn()
}

func (p *Parser) inMath() bool {
	return len(p.modes) > 0 && p.modes[len(p.modes)-1]
}
