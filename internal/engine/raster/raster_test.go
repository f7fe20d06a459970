package raster_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/raster"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/internal/section"
	"github.com/Faultbox/sectionview/internal/subset"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/ifc"
	"github.com/Faultbox/sectionview/pkg/ifc/ifctest"
	"github.com/Faultbox/sectionview/pkg/math"
)

const size = 64

// cube loads a [-1, 1]^3 cube as a single subset and returns its scene and
// plane manager.
func cube(t *testing.T) (*scene.Scene, *section.Manager, *subset.Registry) {
	t.Helper()
	mesh := &geom.Geometry{Primitive: geom.Triangles}
	ifctest.Append(mesh, geom.Box(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1}), 1)

	cat := ifc.NewCatalog()
	id, err := cat.Add(&ifc.Model{Name: "cube", Mesh: mesh})
	require.NoError(t, err)

	sc := scene.New()
	reg := subset.NewRegistry(cat, sc, subset.DefaultStyle(), nil)
	_, err = reg.CreateSubset(id, ifc.NewIDSet(1), "all", subset.OutlineNone)
	require.NoError(t, err)
	return sc, section.NewManager(sc, reg, section.DefaultStyle(), nil), reg
}

// sideView looks along +X at the origin; 64 pixels span 4 world units, so a
// unit of world area covers 256 pixels.
func sideView() camera.Camera {
	return camera.NewAxisCamera(math.Vec3{}, math.UnitX, 2, 10)
}

func render(t *testing.T, sc *scene.Scene, clip scene.ClipTable, cam camera.Camera) *raster.Rasterizer {
	t.Helper()
	r, err := raster.New(size, size)
	require.NoError(t, err)
	require.NoError(t, r.Render(sc, cam, clip))
	return r
}

func TestCapCoversCrossSection(t *testing.T) {
	sc, m, _ := cube(t)
	h, err := m.AddPlane(section.AxisX, section.Positive)
	require.NoError(t, err)
	p, _ := m.Plane(h)

	r := render(t, sc, m, sideView())

	// The cut face is a 2x2 square: 4 world units of area.
	assert.InDelta(t, 4*256, r.Stats().Fragments[p.Cap()], 4*256*0.03)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			require.Zero(t, r.StencilAt(x, y), "stencil cleared after the cap")
		}
	}

	// The helper's diagonals cross the center, so sample off both of them.
	c := r.Image().RGBAAt(size/2, size/2-12)
	assert.Greater(t, c.R, c.G, "cut face shows the cap color")

	require.NoError(t, m.SetHelperVisible(h, false))
	r = render(t, sc, m, sideView())
	c = r.Image().RGBAAt(size/2, size/2)
	assert.Greater(t, c.R, c.G, "center shows the cap color once the helper is hidden")
}

func TestHelperDrawsOverCap(t *testing.T) {
	sc, m, _ := cube(t)
	_, err := m.AddPlane(section.AxisX, section.Positive)
	require.NoError(t, err)

	r := render(t, sc, m, sideView())
	c := r.Image().RGBAAt(size/2, size/2)
	assert.Greater(t, c.B, c.R, "helper diagonals cross the center")
}

func TestNoCapWithoutPlanes(t *testing.T) {
	sc, m, reg := cube(t)
	r := render(t, sc, m, sideView())

	solid := reg.Solids()[0]
	assert.InDelta(t, 4*256, r.Stats().Fragments[solid], 4*256*0.03)
	assert.Equal(t, 1, r.Stats().Draws)
}

func TestCapClippedBySiblingPlane(t *testing.T) {
	sc, m, _ := cube(t)
	hx, err := m.AddPlane(section.AxisX, section.Positive)
	require.NoError(t, err)
	hy, err := m.AddPlane(section.AxisY, section.Positive)
	require.NoError(t, err)
	px, _ := m.Plane(hx)
	py, _ := m.Plane(hy)

	r := render(t, sc, m, sideView())

	// Only the y >= 0 half of the x cap survives the second plane.
	assert.InDelta(t, 2*256, r.Stats().Fragments[px.Cap()], 2*256*0.03)
	assert.Zero(t, r.Stats().Fragments[py.Cap()], "y cap is edge-on and has no interior behind it")
}

func TestCapMovesWithConstant(t *testing.T) {
	sc, m, _ := cube(t)
	h, err := m.AddPlane(section.AxisX, section.Positive)
	require.NoError(t, err)
	p, _ := m.Plane(h)

	// Past the far face nothing is left to cap.
	require.NoError(t, m.AdjustConstant(h, -1.5))
	m.UpdateCaps()
	r := render(t, sc, m, sideView())
	assert.Zero(t, r.Stats().Fragments[p.Cap()])

	// Inverted at 0.5 the plane keeps x <= 0.5; seen from +X the cut is the full square.
	require.NoError(t, m.AdjustConstant(h, 0.5))
	require.NoError(t, m.FlipPlane(h, true))
	m.UpdateCaps()
	r = render(t, sc, m, camera.NewAxisCamera(math.Vec3{}, math.UnitX.Negate(), 2, 10))
	assert.InDelta(t, 4*256, r.Stats().Fragments[p.Cap()], 4*256*0.03)
}

func TestPerspectiveView(t *testing.T) {
	sc, m, reg := cube(t)
	_, err := m.AddPlane(section.AxisZ, section.Negative)
	require.NoError(t, err)

	cam := camera.NewOrbitCamera()
	cam.FitToBounds(reg.Bounds().Box())
	r := render(t, sc, m, cam)

	assert.Positive(t, r.Stats().Fragments[reg.Solids()[0]])
	assert.Positive(t, r.Stats().Triangles)
}

func TestNearPlaneClipping(t *testing.T) {
	sc, m, reg := cube(t)
	cam := camera.NewOrbitCamera()
	cam.Target = math.Vec3{}
	cam.Distance = 0.5 // inside the cube
	cam.NearPlane = 0.1
	r := render(t, sc, m, cam)
	assert.Positive(t, r.Stats().Fragments[reg.Solids()[0]])
}

func TestLines(t *testing.T) {
	sc := scene.New()
	n := scene.NewNode("outline", geom.SquareOutline(2), scene.NewMaterial("outline", [3]float32{0, 0, 0}))
	sc.Add(n)
	cam := camera.NewAxisCamera(math.Vec3{}, math.UnitZ.Negate(), 2, 10)

	r := render(t, sc, nil, cam)
	assert.Positive(t, r.Stats().Fragments[n])
	assert.Equal(t, uint8(0), r.Image().RGBAAt(size/4, size/4).R, "corner of the square is drawn")
}

func TestTransparentBlend(t *testing.T) {
	sc := scene.New()
	m := scene.NewMaterial("glass", [3]float32{0, 0, 0})
	m.Side = scene.DoubleSide
	m.SetTransparent(true, 0.5)
	sc.Add(scene.NewNode("glass", geom.PlaneQuad(4, 4), m))

	r := render(t, sc, nil, camera.NewAxisCamera(math.Vec3{}, math.UnitZ.Negate(), 2, 10))
	c := r.Image().RGBAAt(size/2, size/2)
	assert.InDelta(t, 0xf0/2, int(c.R), 2)
}

func TestWritePNG(t *testing.T) {
	sc, m, _ := cube(t)
	r := render(t, sc, m, sideView())

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, size, img.Bounds().Dx())

	path := t.TempDir() + "/frame.png"
	require.NoError(t, r.SavePNG(path))
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := raster.New(0, 10)
	assert.Error(t, err)
}
