package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sectionview/pkg/math"
)

func TestValidate(t *testing.T) {
	g := Box(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	require.NoError(t, g.Validate())

	bad := &Geometry{Positions: []float32{0, 0}}
	assert.ErrorIs(t, bad.Validate(), ErrMalformed)

	outOfRange := &Geometry{Positions: []float32{0, 0, 0}, Indices: []uint32{0, 0, 1}}
	assert.ErrorIs(t, outOfRange.Validate(), ErrMalformed)

	ids := &Geometry{Positions: []float32{0, 0, 0}, IDs: []uint32{1, 2}}
	assert.ErrorIs(t, ids.Validate(), ErrMalformed)
}

func TestBoxOutwardNormals(t *testing.T) {
	g := Box(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	for i := 0; i < len(g.Indices); i += 3 {
		a, b, c := g.Position(g.Indices[i]), g.Position(g.Indices[i+1]), g.Position(g.Indices[i+2])
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Scale(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), float32(0), "triangle %d faces inward", i/3)
	}
}

func TestBounds(t *testing.T) {
	g := Box(math.Vec3{X: 1, Y: 2, Z: 3}, math.Vec3{X: 4, Y: 5, Z: 6})
	b := g.Bounds()
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, b.Min)
	assert.Equal(t, math.Vec3{X: 4, Y: 5, Z: 6}, b.Max)

	assert.True(t, (&Geometry{}).Bounds().IsEmpty())
}

func TestEdgesOfBox(t *testing.T) {
	g := Box(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	edges := Edges(g, DefaultEdgeThreshold)

	assert.Equal(t, Lines, edges.Primitive)
	// Face diagonals are coplanar and dropped; only the 12 box edges remain.
	assert.Len(t, edges.Indices, 24)
	require.NoError(t, edges.Validate())
}

func TestEdgesOfOpenQuad(t *testing.T) {
	edges := Edges(PlaneQuad(2, 2), DefaultEdgeThreshold)
	// Four boundary edges; the shared diagonal is flat.
	assert.Len(t, edges.Indices, 8)
}

func TestEdgesEmpty(t *testing.T) {
	assert.Empty(t, Edges(&Geometry{}, DefaultEdgeThreshold).Indices)
}
