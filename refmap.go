package latex

type siblings struct {
	previous Node
	next     Node
}

// RefMap knows previous and next sibling of every node in a tree. It is built once per print pass and is
// only valid as long as the tree is not modified.
type RefMap struct {
	root  Node
	nodes map[Node]siblings
}

// NewRefMap walks the tree once and records the order of every nested sequence.
func NewRefMap(root Node) *RefMap {
	m := &RefMap{root: root, nodes: map[Node]siblings{}}
	m.walk(root)
	return m
}

func (m *RefMap) walk(node Node) {
	for _, seq := range children(node) {
		for i, child := range seq {
			var s siblings
			if i > 0 {
				s.previous = seq[i-1]
			}

			if i < len(seq)-1 {
				s.next = seq[i+1]
			}

			m.nodes[child] = s
			m.walk(child)
		}
	}
}

// Root returns the node the map was built from.
func (m *RefMap) Root() Node {
	return m.root
}

// Previous returns the sibling before node or nil if node is first in its sequence.
func (m *RefMap) Previous(node Node) Node {
	if m == nil {
		return nil
	}

	return m.nodes[node].previous
}

// Next returns the sibling after node or nil if node is last in its sequence.
func (m *RefMap) Next(node Node) Node {
	if m == nil {
		return nil
	}

	return m.nodes[node].next
}

// Contains reports if node is part of the mapped tree.
func (m *RefMap) Contains(node Node) bool {
	if m == nil {
		return false
	}

	if node == m.root {
		return true
	}

	_, ok := m.nodes[node]
	return ok
}
