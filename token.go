package latex

type TokenKind int

const (
	EOFToken TokenKind = iota
	TextToken
	SpaceToken
	ParbreakToken
	CommentToken
	CommandToken
	SymbolToken // one of & # ^ _ ~
	ParameterStart
	ParameterEnd
	OptionalStart
	OptionalEnd
	MathShift // $ or $$
)

// Token is a single lexical unit of the source.
type Token struct {
	Kind TokenKind
	Span
	Text string // raw text of the token, for CommandToken the name without backslash

	// comment tokens only
	Leading  string
	Suffix   string
	SameLine bool
}

func (t Token) is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}
