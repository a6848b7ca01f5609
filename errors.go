package latex

import (
	"fmt"
	"strings"
)

// SyntaxError is returned by Parse when the source can not be parsed. The tree is never returned partially.
type SyntaxError struct {
	Offset  int // byte offset in the source
	Line    int // 1-based line of the offset
	Column  int // 1-based column (in bytes) of the offset
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d (offset %d): %s", e.Line, e.Column, e.Offset, e.Message)
}

func newSyntaxError(src string, offset int, format string, args ...any) *SyntaxError {
	if offset > len(src) {
		offset = len(src)
	}

	line := strings.Count(src[:offset], "\n") + 1
	column := offset - strings.LastIndexByte(src[:offset], '\n')

	return &SyntaxError{Offset: offset, Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}

// PrintWarning describes a non-fatal anomaly found while printing, the affected subtree is printed raw.
type PrintWarning struct {
	Message string
	Node    Node
}

func (w PrintWarning) String() string {
	if w.Node == nil {
		return w.Message
	}

	return fmt.Sprintf("%s (offset %d)", w.Message, w.Node.Pos().Start)
}
