package latex

import (
	"strings"
	"unicode/utf8"
)

// Tokenizer splits LaTeX source into tokens. It does not know about modes, the parser asks for verbatim
// content explicitly when it enters a verbatim environment or a \verb macro.
type Tokenizer struct {
	src string
	pos int
}

func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Pos returns offset of the next token.
func (l *Tokenizer) Pos() int {
	return l.pos
}

// Reset moves the tokenizer to the given offset.
func (l *Tokenizer) Reset(pos int) {
	l.pos = pos
}

// Peek returns the next token without consuming it.
func (l *Tokenizer) Peek() (Token, error) {
	pos := l.pos
	defer l.Reset(pos)

	return l.Token()
}

// PeekByte returns the next byte or 0 at the end of input.
func (l *Tokenizer) PeekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}

	return l.src[l.pos]
}

func (l *Tokenizer) Token() (Token, error) {
	start := l.pos
	if start >= len(l.src) {
		return Token{Kind: EOFToken, Span: Span{start, start}}, nil
	}

	char := l.src[start]
	switch char {
	case '{':
		return l.single(ParameterStart), nil
	case '}':
		return l.single(ParameterEnd), nil
	case '[':
		return l.single(OptionalStart), nil
	case ']':
		return l.single(OptionalEnd), nil
	case '&', '#', '^', '_', '~':
		return l.single(SymbolToken), nil
	case '%':
		return l.readComment(start, ""), nil
	case '$':
		if strings.HasPrefix(l.src[start:], "$$") {
			l.pos += 2
			return Token{Kind: MathShift, Span: Span{start, l.pos}, Text: "$$"}, nil
		}

		return l.single(MathShift), nil
	case '\\':
		return l.readBackslash()
	default:
		if isWhitespace(char) {
			return l.readWhitespace(), nil
		}

		return l.readText(), nil
	}
}

func (l *Tokenizer) single(kind TokenKind) Token {
	start := l.pos
	l.pos++

	return Token{Kind: kind, Span: Span{start, l.pos}, Text: l.src[start:l.pos]}
}

func (l *Tokenizer) readText() Token {
	start := l.pos
	for l.pos < len(l.src) && !isSpecial(l.src[l.pos]) && !isWhitespace(l.src[l.pos]) {
		l.pos++
	}

	return Token{Kind: TextToken, Span: Span{start, l.pos}, Text: l.src[start:l.pos]}
}

// readWhitespace reads a run of whitespace, two or more newlines make a paragraph break. Spaces in front of
// a comment on the same line belong to the comment.
func (l *Tokenizer) readWhitespace() Token {
	start := l.pos
	newlines := 0
	for l.pos < len(l.src) && isWhitespace(l.src[l.pos]) {
		if l.src[l.pos] == '\n' {
			newlines++
		}

		l.pos++
	}

	raw := l.src[start:l.pos]
	if newlines == 0 && l.pos < len(l.src) && l.src[l.pos] == '%' {
		return l.readComment(start, raw)
	}

	if newlines >= 2 {
		return Token{Kind: ParbreakToken, Span: Span{start, l.pos}, Text: raw}
	}

	return Token{Kind: SpaceToken, Span: Span{start, l.pos}, Text: raw}
}

// readComment reads a comment from % to the end of line. The line break and the indentation of the next
// line are swallowed too, unless the next line is blank, so that a paragraph break after comment survives.
func (l *Tokenizer) readComment(start int, leading string) Token {
	percent := start + len(leading)
	end := strings.IndexByte(l.src[percent:], '\n')
	if end < 0 {
		end = len(l.src)
	} else {
		end += percent
	}

	if end > percent+1 && l.src[end-1] == '\r' {
		end--
	}

	token := Token{
		Kind:     CommentToken,
		Text:     l.src[percent+1 : end],
		Leading:  leading,
		SameLine: l.sameLine(start),
	}

	l.pos = end

	next := end
	switch {
	case strings.HasPrefix(l.src[next:], "\r\n"):
		next += 2
	case strings.HasPrefix(l.src[next:], "\n"):
		next++
	}

	if next > end {
		for next < len(l.src) && (l.src[next] == ' ' || l.src[next] == '\t') {
			next++
		}

		if next < len(l.src) && l.src[next] != '\n' && l.src[next] != '\r' {
			token.Suffix = l.src[end:next]
			l.pos = next
		}
	}

	token.Span = Span{start, l.pos}
	return token
}

// sameLine reports if non-whitespace content precedes offset on its line
func (l *Tokenizer) sameLine(offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch l.src[i] {
		case '\n':
			return false
		case ' ', '\t', '\r':
			continue
		default:
			return true
		}
	}

	return false
}

func (l *Tokenizer) readBackslash() (Token, error) {
	start := l.pos
	l.pos++

	if l.pos >= len(l.src) {
		return Token{}, newSyntaxError(l.src, start, "invalid trailing escape")
	}

	// a letter means it's a named command \xyz
	if isLetter(l.src[l.pos]) {
		for l.pos < len(l.src) && isLetter(l.src[l.pos]) {
			l.pos++
		}

		return Token{Kind: CommandToken, Span: Span{start, l.pos}, Text: l.src[start+1 : l.pos]}, nil
	}

	// one symbol command, like \\ or \%
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size

	return Token{Kind: CommandToken, Span: Span{start, l.pos}, Text: l.src[start+1 : l.pos]}, nil
}

// ReadEnvironmentName reads {name} right after \begin or \end.
func (l *Tokenizer) ReadEnvironmentName() (string, error) {
	start := l.pos
	if l.PeekByte() != '{' {
		return "", newSyntaxError(l.src, start, "environment name is expected")
	}

	end := strings.IndexByte(l.src[start:], '}')
	if end < 0 {
		return "", newSyntaxError(l.src, start, "environment name is not closed")
	}

	name := l.src[start+1 : start+end]
	if name == "" || strings.ContainsAny(name, " \t\r\n{\\%") {
		return "", newSyntaxError(l.src, start, "invalid environment name %q", name)
	}

	l.pos = start + end + 1
	return name, nil
}

// ReadVerbatimBody reads verbatim content until \end{name}. The end marker is searched literally, an
// escaped marker (\\end{name}) does not terminate the body. The returned offset points at the end marker.
func (l *Tokenizer) ReadVerbatimBody(name string) (string, int, bool) {
	marker := "\\end{" + name + "}"
	from := l.pos

	for {
		index := strings.Index(l.src[from:], marker)
		if index < 0 {
			return "", 0, false
		}

		at := from + index
		if at > l.pos && l.src[at-1] == '\\' {
			from = at + 1
			continue
		}

		body := l.src[l.pos:at]
		l.pos = at + len(marker)

		return body, at, true
	}
}

// ReadVerb reads delimited content of \verb, the delimiter is the first character after the command name.
func (l *Tokenizer) ReadVerb() (marker string, content string, err error) {
	start := l.pos
	if start >= len(l.src) {
		return "", "", newSyntaxError(l.src, start, "verb delimiter is expected")
	}

	r, size := utf8.DecodeRuneInString(l.src[start:])
	if r == '*' || r < utf8.RuneSelf && (isWhitespace(byte(r)) || isLetter(byte(r))) {
		return "", "", newSyntaxError(l.src, start, "delimiter character %q is not allowed", r)
	}

	marker = l.src[start : start+size]
	body := start + size

	end := strings.Index(l.src[body:], marker)
	if newline := strings.IndexByte(l.src[body:], '\n'); end < 0 || newline >= 0 && newline < end {
		return "", "", newSyntaxError(l.src, start, "verb is not closed")
	}

	l.pos = body + end + size
	return marker, l.src[body : body+end], nil
}

// SkipSpace skips spaces and at most one line break, it never crosses a paragraph break or a comment.
func (l *Tokenizer) SkipSpace() string {
	start := l.pos
	newline := false

	for l.pos < len(l.src) && isWhitespace(l.src[l.pos]) {
		if l.src[l.pos] == '\n' {
			if newline {
				l.pos = start
				return ""
			}

			newline = true
		}

		l.pos++
	}

	return l.src[start:l.pos]
}

// ReadRune consumes one rune of text, it is used for brace-less arguments like \frac12.
func (l *Tokenizer) ReadRune() Token {
	start := l.pos
	_, size := utf8.DecodeRuneInString(l.src[start:])
	l.pos += size

	return Token{Kind: TextToken, Span: Span{start, l.pos}, Text: l.src[start:l.pos]}
}

// isLetter returns true for a letter
func isLetter(r byte) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// isSpecial returns true if a symbol has a special meaning and should interrupt text reading
func isSpecial(r byte) bool {
	switch r {
	case '\\', '{', '}', '[', ']', '$', '%', '&', '#', '^', '_', '~':
		return true
	default:
		return false
	}
}

func isWhitespace(r byte) bool {
	switch r {
	case ' ', '\n', '\t', '\r':
		return true
	default:
		return false
	}
}
