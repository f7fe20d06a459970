package scene

import "slices"

// Scene is a flat list of nodes. It is owned by the render thread.
type Scene struct {
	nodes   []*Node
	nextSeq uint64
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add inserts nodes. Adding a node that is already present is a no-op.
func (s *Scene) Add(nodes ...*Node) {
	for _, n := range nodes {
		if n == nil || slices.Contains(s.nodes, n) {
			continue
		}
		s.nextSeq++
		n.seq = s.nextSeq
		s.nodes = append(s.nodes, n)
	}
}

// Remove deletes nodes from the scene.
func (s *Scene) Remove(nodes ...*Node) {
	for _, n := range nodes {
		if i := slices.Index(s.nodes, n); i >= 0 {
			s.nodes = slices.Delete(s.nodes, i, i+1)
		}
	}
}

// Contains reports whether n is in the scene.
func (s *Scene) Contains(n *Node) bool {
	return slices.Contains(s.nodes, n)
}

// Nodes returns the nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	return slices.Clone(s.nodes)
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Clear removes every node.
func (s *Scene) Clear() {
	s.nodes = nil
}
