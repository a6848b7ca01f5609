package latex

// isStructural returns true for commands which delimit content rather than being macros
func isStructural(name string) bool {
	switch name {
	case "begin", "end", "(", ")", "[", "]":
		return true
	default:
		return false
	}
}

// isRowSeparator returns true for macros which end a row in aligned environments
func isRowSeparator(node Node) bool {
	m, ok := node.(*Macro)
	return ok && m.Escape == "\\" && (m.Name == "\\" || m.Name == "cr" || m.Name == "tabularnewline")
}

// isRule returns true for horizontal rules which are written on their own line in aligned environments
func isRule(node Node) bool {
	m, ok := node.(*Macro)
	if !ok || m.Escape != "\\" {
		return false
	}

	switch m.Name {
	case "hline", "cline", "toprule", "midrule", "bottomrule", "cmidrule":
		return true
	default:
		return false
	}
}

func isSpace(node Node) bool {
	switch node.(type) {
	case *Whitespace, *Parbreak:
		return true
	default:
		return false
	}
}

// trim removes leading and trailing whitespace and paragraph breaks
func trim(nodes []Node) []Node {
	for len(nodes) > 0 && isSpace(nodes[0]) {
		nodes = nodes[1:]
	}

	for len(nodes) > 0 && isSpace(nodes[len(nodes)-1]) {
		nodes = nodes[:len(nodes)-1]
	}

	return nodes
}

