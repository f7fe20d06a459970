// Package renderer is the OpenGL backend. It draws a scene's draw list with
// per-material depth, stencil, culling and clip-plane state.
package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/framebuffer"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/internal/engine/shader"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// MaxClipPlanes is the size of the clip plane uniform array.
const MaxClipPlanes = 8

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [4]float32
}

// GL renders scenes with OpenGL 4.1 core.
type GL struct {
	config Config
	log    *zap.Logger
	prog   *shader.Program
	meshes map[*geom.Geometry]*mesh
	seen   map[*geom.Geometry]bool
	clip   [MaxClipPlanes * 4]float32
}

// New creates the renderer. It must be called after the GL context exists.
func New(cfg Config, log *zap.Logger) (*GL, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	prog, err := shader.Compile(vertexShader, fragmentShader,
		"uModel", "uViewProj", "uColor", "uOpacity", "uEye", "uShade", "uNumClip", "uClipPlanes")
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.FrontFace(gl.CCW)
	gl.DepthFunc(gl.LEQUAL)
	gl.PolygonOffset(1, 1)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return &GL{
		config: cfg,
		log:    log,
		prog:   prog,
		meshes: make(map[*geom.Geometry]*mesh),
		seen:   make(map[*geom.Geometry]bool),
	}, nil
}

// Close releases GPU resources.
func (r *GL) Close() {
	for g, m := range r.meshes {
		m.delete()
		delete(r.meshes, g)
	}
	r.prog.Delete()
	r.log.Info("renderer closed")
}

// Resize updates the viewport.
func (r *GL) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// ClearStencil zeroes the stencil buffer.
func (r *GL) ClearStencil() {
	gl.StencilMask(0xff)
	gl.Clear(gl.STENCIL_BUFFER_BIT)
}

// Render clears the bound framebuffer and draws the scene.
func (r *GL) Render(sc *scene.Scene, cam camera.Camera, clip scene.ClipTable) error {
	bg := r.config.Background
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)
	gl.StencilMask(0xff)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	aspect := float32(r.config.Width) / float32(max(r.config.Height, 1))
	viewProj := cam.ProjectionMatrix(aspect).Mul(cam.ViewMatrix())
	eye := cam.Position()

	r.prog.Use()
	gl.UniformMatrix4fv(r.prog.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform3f(r.prog.Uniform("uEye"), eye.X, eye.Y, eye.Z)

	clear(r.seen)
	for _, cmd := range scene.BuildDrawList(sc, clip) {
		switch cmd.Kind {
		case scene.CmdClearStencil:
			r.ClearStencil()
		case scene.CmdDraw:
			if err := r.draw(cmd); err != nil {
				return err
			}
		}
	}
	r.evict()

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Capture renders one frame into an offscreen framebuffer and returns it as
// a top-down image.
func (r *GL) Capture(sc *scene.Scene, cam camera.Camera, clip scene.ClipTable) (*image.RGBA, error) {
	w, h := int32(r.config.Width), int32(r.config.Height)
	fb, err := framebuffer.New(w, h)
	if err != nil {
		return nil, err
	}
	defer fb.Destroy()

	restore := fb.BindWithViewport()
	err = r.Render(sc, cam, clip)
	pixels := fb.ReadPixels()
	restore()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	row := int(w) * 4
	for y := 0; y < int(h); y++ {
		src := (int(h) - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

func (r *GL) draw(cmd scene.Command) error {
	n := cmd.Node
	m, err := r.upload(n.Geometry)
	if err != nil {
		return fmt.Errorf("upload %q: %w", n.Name, err)
	}
	mat := n.Material
	applyState(mat)

	gl.UniformMatrix4fv(r.prog.Uniform("uModel"), 1, false, &n.Transform[0])
	gl.Uniform3f(r.prog.Uniform("uColor"), mat.Color[0], mat.Color[1], mat.Color[2])
	gl.Uniform1f(r.prog.Uniform("uOpacity"), mat.Opacity)
	shade := int32(1)
	if m.mode == gl.LINES {
		shade = 0
	}
	gl.Uniform1i(r.prog.Uniform("uShade"), shade)
	r.setClip(cmd.Clip)

	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(m.mode, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
	return nil
}

func (r *GL) setClip(planes []math.Plane) {
	n := min(len(planes), MaxClipPlanes)
	if len(planes) > MaxClipPlanes {
		r.log.Warn("clip planes truncated", zap.Int("planes", len(planes)), zap.Int("max", MaxClipPlanes))
	}
	for i := 0; i < n; i++ {
		v := planes[i].Vec4()
		copy(r.clip[i*4:i*4+4], v[:])
	}
	gl.Uniform1i(r.prog.Uniform("uNumClip"), int32(n))
	gl.Uniform4fv(r.prog.Uniform("uClipPlanes"), MaxClipPlanes, &r.clip[0])
}

// applyState maps a material to fixed-function GL state.
func applyState(m *scene.Material) {
	switch m.Side {
	case scene.FrontSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case scene.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}

	if m.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(m.DepthWrite)
	gl.ColorMask(m.ColorWrite, m.ColorWrite, m.ColorWrite, m.ColorWrite)

	if s := m.Stencil; s.Write {
		gl.Enable(gl.STENCIL_TEST)
		gl.StencilMask(0xff)
		gl.StencilFunc(compareFunc(s.Func), int32(s.Ref), 0xff)
		gl.StencilOp(stencilOp(s.Fail), stencilOp(s.ZFail), stencilOp(s.ZPass))
	} else {
		gl.Disable(gl.STENCIL_TEST)
	}

	if m.Transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}

	if m.PolygonOffset {
		gl.Enable(gl.POLYGON_OFFSET_FILL)
	} else {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}
}

func compareFunc(f scene.CompareFunc) uint32 {
	switch f {
	case scene.Never:
		return gl.NEVER
	case scene.Equal:
		return gl.EQUAL
	case scene.NotEqual:
		return gl.NOTEQUAL
	default:
		return gl.ALWAYS
	}
}

func stencilOp(op scene.StencilOp) uint32 {
	switch op {
	case scene.Zero:
		return gl.ZERO
	case scene.Replace:
		return gl.REPLACE
	case scene.IncrementWrap:
		return gl.INCR_WRAP
	case scene.DecrementWrap:
		return gl.DECR_WRAP
	default:
		return gl.KEEP
	}
}
