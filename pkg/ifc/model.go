package ifc

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sectionview/pkg/geom"
)

// ModelID identifies a model inside a Catalog.
type ModelID int

var (
	// ErrMalformedMesh is returned when a model's attribute buffers disagree.
	ErrMalformedMesh = errors.New("malformed model mesh")

	// ErrUnknownModel is returned for a ModelID the catalog does not hold.
	ErrUnknownModel = errors.New("unknown model")
)

// Model is a loaded building mesh. The mesh is never modified after loading.
type Model struct {
	ID    ModelID
	Name  string
	Mesh  *geom.Geometry
	Types map[Category][]SemanticID
}

// Validate checks that the mesh carries a per-vertex id attribute and that all
// buffers are consistent.
func (m *Model) Validate() error {
	if m.Mesh == nil {
		return fmt.Errorf("%w: no mesh", ErrMalformedMesh)
	}
	if m.Mesh.Primitive != geom.Triangles {
		return fmt.Errorf("%w: mesh is not a triangle list", ErrMalformedMesh)
	}
	if len(m.Mesh.Positions) > 0 && m.Mesh.IDs == nil {
		return fmt.Errorf("%w: missing semantic id attribute", ErrMalformedMesh)
	}
	if err := m.Mesh.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedMesh, err)
	}
	return nil
}

// ExtractGeometry returns the triangles of the model whose vertices carry one
// of ids, with unreferenced vertices dropped. The source mesh is untouched.
func (m *Model) ExtractGeometry(ids IDSet) *geom.Geometry {
	src := m.Mesh
	out := &geom.Geometry{Primitive: geom.Triangles}
	if len(ids) == 0 || src == nil {
		return out
	}

	remap := make(map[uint32]uint32)
	for t := 0; t+2 < len(src.Indices); t += 3 {
		if !ids.Has(SemanticID(src.IDs[src.Indices[t]])) {
			continue
		}
		for _, idx := range src.Indices[t : t+3] {
			dst, ok := remap[idx]
			if !ok {
				dst = uint32(len(out.IDs))
				remap[idx] = dst
				o := idx * 3
				out.Positions = append(out.Positions, src.Positions[o], src.Positions[o+1], src.Positions[o+2])
				out.IDs = append(out.IDs, src.IDs[idx])
			}
			out.Indices = append(out.Indices, dst)
		}
	}
	return out
}
