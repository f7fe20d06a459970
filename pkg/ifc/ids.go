// Package ifc models loaded building meshes: semantic ids, element
// categories, the in-process model catalog and the JSON model loader.
package ifc

import (
	"slices"

	"github.com/Faultbox/sectionview/pkg/geom"
)

// SemanticID identifies one logical building element (an IFC express id).
type SemanticID uint32

// IDSet is a set of semantic ids.
type IDSet map[SemanticID]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...SemanticID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s IDSet) Add(id SemanticID) {
	s[id] = struct{}{}
}

// Has reports whether id is a member.
func (s IDSet) Has(id SemanticID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s IDSet) Len() int {
	return len(s)
}

// RemoveAll deletes every id in ids and reports whether anything changed.
func (s IDSet) RemoveAll(ids IDSet) bool {
	changed := false
	for id := range ids {
		if _, ok := s[id]; ok {
			delete(s, id)
			changed = true
		}
	}
	return changed
}

// Difference returns the members of s that are not in other.
func (s IDSet) Difference(other IDSet) IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Intersect returns the members present in both sets.
func (s IDSet) Intersect(other IDSet) IDSet {
	out := make(IDSet)
	for id := range s {
		if other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Clone returns a copy of s.
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []SemanticID {
	out := make([]SemanticID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ExtractIDs returns the distinct semantic ids referenced by the index buffer
// of g. Geometry without an id attribute or without indices yields an empty set.
// Indices past the end of the id attribute are skipped.
func ExtractIDs(g *geom.Geometry) IDSet {
	ids := make(IDSet)
	if g == nil || len(g.IDs) == 0 {
		return ids
	}
	for _, idx := range g.Indices {
		if int(idx) >= len(g.IDs) {
			continue
		}
		ids[SemanticID(g.IDs[idx])] = struct{}{}
	}
	return ids
}
