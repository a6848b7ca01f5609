package doc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	tt := []struct {
		name  string
		doc   Doc
		width int
		want  string
	}{
		{
			name:  "group fits",
			doc:   Group(Text("a"), Line, Text("b")),
			width: 10,
			want:  "a b",
		},
		{
			name:  "group breaks",
			doc:   Group(Text("a"), Line, Text("b")),
			width: 2,
			want:  "a\nb",
		},
		{
			name:  "soft line",
			doc:   Group(Text("a"), SoftLine, Text("b")),
			width: 10,
			want:  "ab",
		},
		{
			name:  "indent",
			doc:   Group(Text("x{"), Indent(Line, Text("y")), Line, Text("}")),
			width: 3,
			want:  "x{\n  y\n}",
		},
		{
			name:  "hard line breaks group",
			doc:   Group(Text("a"), Line, Text("b"), HardLine, Text("c")),
			width: 80,
			want:  "a\nb\nc",
		},
		{
			name:  "nested group stays flat",
			doc:   Group(Text("aaaa"), Line, Group(Text("b"), Line, Text("c"))),
			width: 6,
			want:  "aaaa\nb c",
		},
		{
			name:  "fill",
			doc:   Fill(Text("aaa"), Line, Text("bbb"), Line, Text("ccc")),
			width: 7,
			want:  "aaa bbb\nccc",
		},
		{
			name:  "fill with hard separator",
			doc:   Fill(Text("a"), HardLine, Text("b"), Line, Text("c")),
			width: 80,
			want:  "a\nb c",
		},
		{
			name:  "fill with long word",
			doc:   Fill(Text("a"), Line, Text("bbbbbbbbbb"), Line, Text("c")),
			width: 5,
			want:  "a\nbbbbbbbbbb\nc",
		},
		{
			name:  "trailing spaces",
			doc:   Concat(Text("a  "), HardLine, Text("b")),
			width: 80,
			want:  "a\nb",
		},
		{
			name:  "control space",
			doc:   Concat(Text(`a\ `), HardLine, Text("b")),
			width: 80,
			want:  "a\\ \nb",
		},
		{
			name:  "escaped backslash",
			doc:   Concat(Text(`a\\ `), HardLine, Text("b")),
			width: 80,
			want:  "a\\\\\nb",
		},
		{
			name:  "blank line",
			doc:   Concat(Text("a"), Indent(HardLine, HardLine, Text("b"))),
			width: 80,
			want:  "a\n\n  b",
		},
		{
			name:  "multiline text",
			doc:   Indent(Text("x"), HardLine, Text("a\nb")),
			width: 80,
			want:  "x\n  a\nb",
		},
		{
			name:  "wide characters",
			doc:   Fill(Text("日本"), Line, Text("語")),
			width: 5,
			want:  "日本\n語",
		},
		{
			name:  "join",
			doc:   Join(Text(", "), Text("a"), Text("b"), Text("c")),
			width: 80,
			want:  "a, b, c",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(tc.doc, tc.width, 2)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Render() output does not match expected (-want +got):\n%s", diff)
			}
		})
	}
}
