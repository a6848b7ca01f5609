package latex_test

import (
	"testing"

	"github.com/eolymp/go-latexfmt"
	"github.com/google/go-cmp/cmp"
)

func TestColumnSpecs(t *testing.T) {
	tt := []struct {
		name  string
		input string
		want  []latex.ColumnSpec
	}{
		{
			name:  "borders",
			input: "|l|c|r|",
			want: []latex.ColumnSpec{
				{BorderLeft: true, BorderRight: true, Align: "l"},
				{BorderLeft: true, BorderRight: true, Align: "c"},
				{BorderLeft: true, BorderRight: true, Align: "r"},
			},
		},
		{
			name:  "no borders",
			input: "l c",
			want:  []latex.ColumnSpec{{Align: "l"}, {Align: "c"}},
		},
		{
			name:  "repetition and insertions",
			input: "*{3}{c}@{}p{2cm}",
			want:  []latex.ColumnSpec{{Align: "c"}, {Align: "c"}, {Align: "c"}, {Align: "p"}},
		},
		{
			name:  "column decorations",
			input: ">{\\bfseries}r<{\\hfill}X",
			want:  []latex.ColumnSpec{{Align: "r"}, {Align: "p"}},
		},
		{
			name:  "invalid repetition count",
			input: "*{n}{c}l",
			want:  []latex.ColumnSpec{{Align: "l"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, latex.ColumnSpecs(tc.input)); diff != "" {
				t.Errorf("Column specs do not match (-want +got):\n%s", diff)
			}
		})
	}
}

func TestColumnSpecs_Repetition(t *testing.T) {
	tt := []struct {
		name  string
		input string
		want  int
	}{
		{name: "huge count", input: "*{30000000}{c}", want: 256},
		{name: "huge count of nothing", input: "*{1000000000}{}", want: 0},
		{name: "nested repetition", input: "*{100000}{*{100000}{lc}}", want: 256},
		{name: "columns after cap", input: "*{300}{c}l", want: 256},
		{name: "below cap", input: "*{10}{|c}|", want: 10},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(latex.ColumnSpecs(tc.input)); got != tc.want {
				t.Errorf("Expected %d columns, got %d", tc.want, got)
			}
		})
	}
}
