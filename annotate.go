package latex

// Mode forces text or math mode for the arguments of a macro.
type Mode int

const (
	InheritMode Mode = iota
	TextMode
	MathMode
)

// RenderInfo holds formatting hints for a single node.
type RenderInfo struct {
	HangingIndent bool // indent continuation lines of a macro
	InParMode     bool // flow macro name and arguments with the surrounding paragraph
	AlignContent  bool // align environment content in columns
	BreakBefore   bool // start macro on a new line
	BreakAfter    bool // break line after macro instead of a space
	Mode          Mode // mode of macro arguments
}

// Annotations maps nodes to their render info. Nodes without an entry are printed with zero RenderInfo, which
// means plain macro rendering and no column alignment.
type Annotations map[Node]RenderInfo

// Annotate derives render info for every macro and environment in the tree from the registry.
func Annotate(root Node, registry *Registry) Annotations {
	info := Annotations{}
	annotate(root, registry, info)
	return info
}

func annotate(node Node, registry *Registry, info Annotations) {
	switch n := node.(type) {
	case *Macro:
		if e, ok := registry.macro(n.Name); ok && n.Escape == "\\" {
			ri := RenderInfo{
				HangingIndent: e.spec.HangingIndent,
				InParMode:     e.spec.InParMode,
				BreakBefore:   e.spec.BreakBefore,
				BreakAfter:    e.spec.BreakAfter,
			}

			switch e.spec.Mode {
			case "text":
				ri.Mode = TextMode
			case "math":
				ri.Mode = MathMode
			}

			if ri != (RenderInfo{}) {
				info[n] = ri
			}
		}
	case *Environment:
		if e, ok := registry.environment(n.Name); ok && e.spec.Align {
			info[n] = RenderInfo{AlignContent: true}
		}
	case *MathEnv:
		if e, ok := registry.environment(n.Name); ok && e.spec.Align {
			info[n] = RenderInfo{AlignContent: true}
		}
	}

	for _, seq := range children(node) {
		for _, child := range seq {
			annotate(child, registry, info)
		}
	}
}
