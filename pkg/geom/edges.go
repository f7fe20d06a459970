package geom

import (
	gomath "math"

	"github.com/Faultbox/sectionview/pkg/math"
)

// DefaultEdgeThreshold is the crease angle in degrees below which an edge
// shared by two triangles is not drawn.
const DefaultEdgeThreshold = 1.0

const edgePrecision = 1e4

type vertexKey [3]int64

type edgeKey struct {
	a, b vertexKey
}

type edgeEntry struct {
	a, b   math.Vec3
	normal math.Vec3
	faces  int
	keep   bool
}

// Edges builds a line geometry containing the boundary edges of g and every
// edge whose adjacent faces meet at more than thresholdDeg degrees.
// Vertices are matched by rounded position so split vertices still merge.
func Edges(g *Geometry, thresholdDeg float64) *Geometry {
	out := &Geometry{Primitive: Lines}
	if g.IsEmpty() || g.Primitive != Triangles {
		return out
	}
	cosThreshold := float32(gomath.Cos(thresholdDeg * gomath.Pi / 180))

	entries := make(map[edgeKey]*edgeEntry)
	order := make([]edgeKey, 0, len(g.Indices))

	for t := 0; t+2 < len(g.Indices); t += 3 {
		v := [3]math.Vec3{
			g.Position(g.Indices[t]),
			g.Position(g.Indices[t+1]),
			g.Position(g.Indices[t+2]),
		}
		keys := [3]vertexKey{quantize(v[0]), quantize(v[1]), quantize(v[2])}
		if keys[0] == keys[1] || keys[1] == keys[2] || keys[0] == keys[2] {
			continue
		}
		normal := v[1].Sub(v[0]).Cross(v[2].Sub(v[0])).Normalize()

		for j := 0; j < 3; j++ {
			k := (j + 1) % 3
			key := makeEdgeKey(keys[j], keys[k])
			e, ok := entries[key]
			if !ok {
				entries[key] = &edgeEntry{a: v[j], b: v[k], normal: normal, faces: 1}
				order = append(order, key)
				continue
			}
			e.faces++
			if e.normal.Dot(normal) <= cosThreshold {
				e.keep = true
			}
		}
	}

	for _, key := range order {
		e := entries[key]
		if e.faces != 1 && !e.keep {
			continue
		}
		base := uint32(out.VertexCount())
		out.Positions = append(out.Positions, e.a.X, e.a.Y, e.a.Z, e.b.X, e.b.Y, e.b.Z)
		out.Indices = append(out.Indices, base, base+1)
	}
	return out
}

func quantize(v math.Vec3) vertexKey {
	return vertexKey{
		int64(gomath.Round(float64(v.X) * edgePrecision)),
		int64(gomath.Round(float64(v.Y) * edgePrecision)),
		int64(gomath.Round(float64(v.Z) * edgePrecision)),
	}
}

func makeEdgeKey(a, b vertexKey) edgeKey {
	if less(b, a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

func less(a, b vertexKey) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
