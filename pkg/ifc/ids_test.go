package ifc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/ifc"
	"github.com/Faultbox/sectionview/pkg/ifc/ifctest"
)

func TestExtractIDs(t *testing.T) {
	m := ifctest.Row(ifctest.Range(1, 10)...)
	ids := ifc.ExtractIDs(m.Mesh)

	assert.Equal(t, ifctest.Range(1, 10), ids.Sorted())
}

func TestExtractIDsOnlyReferencedVertices(t *testing.T) {
	g := &geom.Geometry{
		Primitive: geom.Triangles,
		Positions: make([]float32, 3*5),
		IDs:       []uint32{4, 4, 4, 9, 9},
		Indices:   []uint32{0, 1, 2, 2, 1, 0},
	}
	// Vertices 3 and 4 carry id 9 but no triangle references them.
	assert.Equal(t, []ifc.SemanticID{4}, ifc.ExtractIDs(g).Sorted())
}

func TestExtractIDsShortIDAttribute(t *testing.T) {
	g := &geom.Geometry{
		Primitive: geom.Triangles,
		Positions: make([]float32, 3*4),
		IDs:       []uint32{7, 7, 7},
		Indices:   []uint32{0, 1, 2, 1, 2, 3},
	}
	assert.NotPanics(t, func() {
		assert.Equal(t, []ifc.SemanticID{7}, ifc.ExtractIDs(g).Sorted())
	})
}

func TestExtractIDsEmpty(t *testing.T) {
	assert.Zero(t, ifc.ExtractIDs(&geom.Geometry{}).Len())
	assert.Zero(t, ifc.ExtractIDs(nil).Len())
}

func TestIDSetOperations(t *testing.T) {
	s := ifc.NewIDSet(1, 2, 3, 4)
	other := ifc.NewIDSet(3, 4, 5)

	assert.Equal(t, []ifc.SemanticID{1, 2}, s.Difference(other).Sorted())
	assert.Equal(t, []ifc.SemanticID{3, 4}, s.Intersect(other).Sorted())

	c := s.Clone()
	assert.True(t, c.RemoveAll(other))
	assert.False(t, c.RemoveAll(other))
	assert.Equal(t, 4, s.Len(), "clone must not alias")
}
