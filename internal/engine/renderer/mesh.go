package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/pkg/geom"
)

// mesh is a geometry uploaded to the GPU.
type mesh struct {
	vao, vbo, ebo uint32
	count         int32
	mode          uint32
}

// upload returns the GPU mesh for g, creating it on first use. Geometries
// are immutable once built, so the pointer is the cache key.
func (r *GL) upload(g *geom.Geometry) (*mesh, error) {
	r.seen[g] = true
	if m, ok := r.meshes[g]; ok {
		return m, nil
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	m := &mesh{count: int32(len(g.Indices)), mode: gl.TRIANGLES}
	if g.Primitive == geom.Lines {
		m.mode = gl.LINES
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Positions)*4, gl.Ptr(g.Positions), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)

	r.meshes[g] = m
	r.log.Debug("mesh uploaded",
		zap.Uint32("vao", m.vao),
		zap.Int("vertices", g.VertexCount()),
		zap.Int32("indices", m.count))
	return m, nil
}

// evict frees meshes whose geometry was not drawn this frame.
func (r *GL) evict() {
	for g, m := range r.meshes {
		if !r.seen[g] {
			m.delete()
			delete(r.meshes, g)
		}
	}
}

func (m *mesh) delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}
