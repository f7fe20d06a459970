package scene

import "github.com/Faultbox/sectionview/pkg/math"

// ClipRef is a generation-stamped handle to a section plane. A ref whose
// generation no longer matches its slot is stale.
type ClipRef struct {
	Slot uint32
	Gen  uint32
}

// ClipTable resolves plane handles to their current plane equation.
type ClipTable interface {
	Lookup(ref ClipRef) (math.Plane, bool)
}

// ResolveClipPlanes returns the current planes for m, skipping stale refs.
func ResolveClipPlanes(table ClipTable, m *Material) []math.Plane {
	if m == nil || m.ClipMode == ClipNone || table == nil || len(m.ClipPlanes) == 0 {
		return nil
	}
	out := make([]math.Plane, 0, len(m.ClipPlanes))
	for _, ref := range m.ClipPlanes {
		if p, ok := table.Lookup(ref); ok {
			out = append(out, p)
		}
	}
	return out
}
