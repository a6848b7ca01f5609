package latex_test

import (
	"testing"

	"github.com/eolymp/go-latexfmt"
)

func TestRefMap(t *testing.T) {
	root, err := latex.Parse("a \\textbf{b c} d", latex.DefaultRegistry())
	if err != nil {
		t.Fatalf("Unable to parse document: %v", err)
	}

	refs := latex.NewRefMap(root)

	a := root.Content[0]
	bold := root.Content[2].(*latex.Macro)
	d := root.Content[4]

	arg := bold.Args[0]
	b, c := arg.Content[0], arg.Content[2]

	tt := []struct {
		name string
		got  latex.Node
		want latex.Node
	}{
		{name: "first has no previous", got: refs.Previous(a), want: nil},
		{name: "next of first", got: refs.Next(a), want: root.Content[1]},
		{name: "previous of macro", got: refs.Previous(bold), want: root.Content[1]},
		{name: "last has no next", got: refs.Next(d), want: nil},
		{name: "nested next", got: refs.Next(b), want: arg.Content[1]},
		{name: "nested previous", got: refs.Previous(c), want: arg.Content[1]},
		{name: "only argument", got: refs.Next(arg), want: nil},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("Sibling does not match: want %#v, got %#v", tc.want, tc.got)
			}
		})
	}

	if !refs.Contains(c) {
		t.Error("Nested node is expected to be in the map")
	}

	if refs.Contains(&latex.String{Content: "b"}) {
		t.Error("Node from another tree is not expected to be in the map")
	}

	if refs.Root() != root {
		t.Error("Root does not match")
	}
}

func TestRefMap_Nil(t *testing.T) {
	var refs *latex.RefMap

	if refs.Next(&latex.String{}) != nil || refs.Previous(&latex.String{}) != nil || refs.Contains(&latex.String{}) {
		t.Error("Nil map is expected to know nothing")
	}
}
