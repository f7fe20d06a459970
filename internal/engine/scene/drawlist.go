package scene

import (
	"cmp"
	"slices"

	"github.com/Faultbox/sectionview/pkg/math"
)

// CommandKind distinguishes draw list entries.
type CommandKind int

const (
	CmdDraw CommandKind = iota
	CmdClearStencil
)

// Command is one step of a frame.
type Command struct {
	Kind CommandKind
	Node *Node
	Clip []math.Plane
}

// BuildDrawList orders the visible nodes of s for rendering: opaque nodes
// first, then transparent ones, each group by RenderOrder and then insertion
// order. A stencil clear follows every node flagged ClearStencilAfter, so
// consecutive cap passes each start from an empty stencil buffer. Clip planes
// are resolved against table at call time.
func BuildDrawList(s *Scene, table ClipTable) []Command {
	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		if !n.Visible || n.Geometry.IsEmpty() || n.Material == nil {
			continue
		}
		nodes = append(nodes, n)
	}

	slices.SortStableFunc(nodes, func(a, b *Node) int {
		if a.Material.Transparent != b.Material.Transparent {
			if a.Material.Transparent {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.RenderOrder, b.RenderOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	cmds := make([]Command, 0, len(nodes)+4)
	for _, n := range nodes {
		cmds = append(cmds, Command{
			Kind: CmdDraw,
			Node: n,
			Clip: ResolveClipPlanes(table, n.Material),
		})
		if n.ClearStencilAfter {
			cmds = append(cmds, Command{Kind: CmdClearStencil})
		}
	}
	return cmds
}
