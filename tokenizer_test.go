package latex_test

import (
	"errors"
	"testing"

	"github.com/eolymp/go-latexfmt"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTokenizer(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output []latex.Token
	}{
		{
			name:  "text",
			input: "one two",
			output: []latex.Token{
				{Kind: latex.TextToken, Text: "one"},
				{Kind: latex.SpaceToken, Text: " "},
				{Kind: latex.TextToken, Text: "two"},
			},
		},
		{
			name:  "command",
			input: "\\textbf{foo}",
			output: []latex.Token{
				{Kind: latex.CommandToken, Text: "textbf"},
				{Kind: latex.ParameterStart, Text: "{"},
				{Kind: latex.TextToken, Text: "foo"},
				{Kind: latex.ParameterEnd, Text: "}"},
			},
		},
		{
			name:  "symbol commands",
			input: "\\\\ \\%",
			output: []latex.Token{
				{Kind: latex.CommandToken, Text: "\\"},
				{Kind: latex.SpaceToken, Text: " "},
				{Kind: latex.CommandToken, Text: "%"},
			},
		},
		{
			name:  "paragraph break",
			input: "a\n \n\nb",
			output: []latex.Token{
				{Kind: latex.TextToken, Text: "a"},
				{Kind: latex.ParbreakToken, Text: "\n \n\n"},
				{Kind: latex.TextToken, Text: "b"},
			},
		},
		{
			name:  "same line comment",
			input: "a % note\n  b",
			output: []latex.Token{
				{Kind: latex.TextToken, Text: "a"},
				{Kind: latex.CommentToken, Text: " note", Leading: " ", Suffix: "\n  ", SameLine: true},
				{Kind: latex.TextToken, Text: "b"},
			},
		},
		{
			name:  "comment before blank line",
			input: "% note\n\nb",
			output: []latex.Token{
				{Kind: latex.CommentToken, Text: " note"},
				{Kind: latex.ParbreakToken, Text: "\n\n"},
				{Kind: latex.TextToken, Text: "b"},
			},
		},
		{
			name:  "math shifts",
			input: "$x$ $$",
			output: []latex.Token{
				{Kind: latex.MathShift, Text: "$"},
				{Kind: latex.TextToken, Text: "x"},
				{Kind: latex.MathShift, Text: "$"},
				{Kind: latex.SpaceToken, Text: " "},
				{Kind: latex.MathShift, Text: "$$"},
			},
		},
		{
			name:  "symbols",
			input: "a&b^c[d]",
			output: []latex.Token{
				{Kind: latex.TextToken, Text: "a"},
				{Kind: latex.SymbolToken, Text: "&"},
				{Kind: latex.TextToken, Text: "b"},
				{Kind: latex.SymbolToken, Text: "^"},
				{Kind: latex.TextToken, Text: "c"},
				{Kind: latex.OptionalStart, Text: "["},
				{Kind: latex.TextToken, Text: "d"},
				{Kind: latex.OptionalEnd, Text: "]"},
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			tokens := latex.NewTokenizer(tc.input)

			var got []latex.Token
			for {
				token, err := tokens.Token()
				if err != nil {
					t.Fatalf("Unable to read token: %v", err)
				}

				if token.Kind == latex.EOFToken {
					break
				}

				got = append(got, token)
			}

			if diff := cmp.Diff(tc.output, got, cmpopts.IgnoreTypes(latex.Span{})); diff != "" {
				t.Errorf("Tokens do not match (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizer_Spans(t *testing.T) {
	tokens := latex.NewTokenizer("ab \\cd")

	var got []latex.Span
	for {
		token, err := tokens.Token()
		if err != nil {
			t.Fatalf("Unable to read token: %v", err)
		}

		if token.Kind == latex.EOFToken {
			break
		}

		got = append(got, token.Span)
	}

	want := []latex.Span{{Start: 0, End: 2}, {Start: 2, End: 3}, {Start: 3, End: 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Spans do not match (-want +got):\n%s", diff)
	}
}

func TestTokenizer_TrailingEscape(t *testing.T) {
	tokens := latex.NewTokenizer("a\\")

	if _, err := tokens.Token(); err != nil {
		t.Fatalf("Unable to read first token: %v", err)
	}

	_, err := tokens.Token()

	var serr *latex.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Expected syntax error, got %v", err)
	}

	if serr.Offset != 1 {
		t.Errorf("Error offset does not match: want 1, got %v", serr.Offset)
	}
}

func TestTokenizer_ReadVerbatimBody(t *testing.T) {
	tt := []struct {
		name  string
		input string
		body  string
		ok    bool
	}{
		{name: "simple", input: "x y\\end{verbatim} rest", body: "x y", ok: true},
		{name: "other end marker", input: "a\\end{other}b\\end{verbatim}", body: "a\\end{other}b", ok: true},
		{name: "escaped end marker", input: "a\\\\end{verbatim}b\\end{verbatim}", body: "a\\\\end{verbatim}b", ok: true},
		{name: "not closed", input: "a\\end{verb}", ok: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			body, _, ok := latex.NewTokenizer(tc.input).ReadVerbatimBody("verbatim")

			if ok != tc.ok {
				t.Fatalf("Closed flag does not match: want %v, got %v", tc.ok, ok)
			}

			if body != tc.body {
				t.Errorf("Body does not match: want %q, got %q", tc.body, body)
			}
		})
	}
}

func TestTokenizer_ReadVerb(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		marker  string
		content string
		err     bool
	}{
		{name: "pipe", input: "|a {b|c", marker: "|", content: "a {b"},
		{name: "plus", input: "+x+", marker: "+", content: "x"},
		{name: "line break", input: "|a\nb|", err: true},
		{name: "not closed", input: "|abc", err: true},
		{name: "letter delimiter", input: "abca", err: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			marker, content, err := latex.NewTokenizer(tc.input).ReadVerb()
			if tc.err {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("Unable to read verb: %v", err)
			}

			if marker != tc.marker || content != tc.content {
				t.Errorf("Verb does not match: want %q %q, got %q %q", tc.marker, tc.content, marker, content)
			}
		})
	}
}

func TestTokenizer_SkipSpace(t *testing.T) {
	tt := []struct {
		name  string
		input string
		space string
		pos   int
	}{
		{name: "spaces", input: "  x", space: "  ", pos: 2},
		{name: "one line break", input: " \n x", space: " \n ", pos: 3},
		{name: "paragraph break", input: "\n\nx", space: "", pos: 0},
		{name: "nothing", input: "x", space: "", pos: 0},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			tokens := latex.NewTokenizer(tc.input)

			if space := tokens.SkipSpace(); space != tc.space {
				t.Errorf("Skipped space does not match: want %q, got %q", tc.space, space)
			}

			if tokens.Pos() != tc.pos {
				t.Errorf("Position does not match: want %v, got %v", tc.pos, tokens.Pos())
			}
		})
	}
}
