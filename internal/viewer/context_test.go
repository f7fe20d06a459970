package viewer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/sectionview/internal/classify"
	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/internal/section"
	"github.com/Faultbox/sectionview/internal/viewer"
	"github.com/Faultbox/sectionview/pkg/ifc"
	"github.com/Faultbox/sectionview/pkg/ifc/ifctest"
	"github.com/Faultbox/sectionview/pkg/math"
)

// recorder keeps the draw list of every frame it is asked to render.
type recorder struct {
	frames  [][]scene.Command
	cleared int
	err     error
}

func (r *recorder) Render(sc *scene.Scene, _ camera.Camera, clip scene.ClipTable) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, scene.BuildDrawList(sc, clip))
	return nil
}

func (r *recorder) ClearStencil() { r.cleared++ }

func (r *recorder) last() []scene.Command {
	return r.frames[len(r.frames)-1]
}

type failing struct{}

func (failing) QueryIDsOfCategory(context.Context, ifc.ModelID, ifc.Category) ([]ifc.SemanticID, error) {
	return nil, errors.New("offline")
}

// model returns four boxes; 1 and 2 are walls, 3 is a door.
func model() *ifc.Model {
	m := ifctest.Row(1, 2, 3, 4)
	m.Types[ifc.IfcWall] = []ifc.SemanticID{1, 2}
	m.Types[ifc.IfcDoor] = []ifc.SemanticID{3}
	return m
}

func newContext(t *testing.T, opts viewer.Options) (*viewer.Context, *recorder, *camera.OrbitCamera) {
	t.Helper()
	r := &recorder{}
	cam := camera.NewOrbitCamera()
	cam.Damping = 0
	return viewer.New(r, cam, opts, nil), r, cam
}

func TestLoadModelSplitsWireframe(t *testing.T) {
	v, _, cam := newContext(t, viewer.DefaultOptions())
	require.NoError(t, v.LoadModel(context.Background(), model()))

	wire, ok := v.Subsets.Get("wireframe_elements")
	require.True(t, ok)
	assert.Equal(t, []ifc.SemanticID{1, 2}, wire.Members.Sorted())
	assert.NotNil(t, wire.OutlineNode)

	rest, ok := v.Subsets.Get("everything_else")
	require.True(t, ok)
	assert.Equal(t, []ifc.SemanticID{3, 4}, rest.Members.Sorted())
	assert.Nil(t, rest.OutlineNode)

	assert.InDelta(t, 3.5, cam.Target.X, 1e-5, "camera fitted to the model")
}

func TestLoadModelWithoutClassification(t *testing.T) {
	opts := viewer.DefaultOptions()
	opts.Service = failing{}
	v, _, _ := newContext(t, opts)

	err := v.LoadModel(context.Background(), model())
	require.ErrorIs(t, err, classify.ErrClassificationUnavailable)

	wire, _ := v.Subsets.Get("wireframe_elements")
	assert.Zero(t, wire.Members.Len())
	rest, _ := v.Subsets.Get("everything_else")
	assert.Equal(t, 4, rest.Members.Len(), "model still shown")
}

func TestLoadModelRejectsMalformedMesh(t *testing.T) {
	v, _, _ := newContext(t, viewer.DefaultOptions())
	require.NoError(t, v.LoadModel(context.Background(), model()))

	bad := model()
	bad.Mesh.IDs = nil
	require.ErrorIs(t, v.LoadModel(context.Background(), bad), ifc.ErrMalformedMesh)
	assert.Equal(t, "row", v.Model.Name)
	assert.Equal(t, 2, v.Subsets.Len(), "previous model left in place")
}

func TestReloadKeepsPlanes(t *testing.T) {
	v, _, _ := newContext(t, viewer.DefaultOptions())
	ctx := context.Background()
	require.NoError(t, v.LoadModel(ctx, model()))
	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdAddPlane, Axis: section.AxisX, Sign: section.Positive}))

	first := v.Model.ID
	require.NoError(t, v.LoadModel(ctx, model()))
	assert.NotEqual(t, first, v.Model.ID)
	_, err := v.Catalog.Get(first)
	assert.ErrorIs(t, err, ifc.ErrUnknownModel)

	assert.Equal(t, 1, v.Planes.Len())
	for _, n := range v.Subsets.Solids() {
		assert.Len(t, n.Material.ClipPlanes, 1, n.Name)
	}
}

func TestTickRendersAndPlacesCaps(t *testing.T) {
	v, r, _ := newContext(t, viewer.DefaultOptions())
	require.NoError(t, v.LoadModel(context.Background(), model()))
	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdAddPlane, Axis: section.AxisX, Sign: section.Negative}))
	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdSetConstant, Value: 5}))

	require.NoError(t, v.Tick(1.0/60))
	assert.Equal(t, uint64(1), v.Frames())

	h, ok := v.Selected()
	require.True(t, ok)
	p, err := v.Planes.Plane(h)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, p.Cap().Transform.Translation().X, 1e-5)

	var clears int
	for _, c := range r.last() {
		if c.Kind == scene.CmdClearStencil {
			clears++
		}
	}
	assert.Equal(t, 1, clears)
}

func TestTickWrapsRenderError(t *testing.T) {
	v, r, _ := newContext(t, viewer.DefaultOptions())
	r.err = errors.New("context lost")
	err := v.Tick(0)
	require.ErrorIs(t, err, r.err)
	assert.Zero(t, v.Frames())
}

func TestCommands(t *testing.T) {
	v, _, _ := newContext(t, viewer.DefaultOptions())
	require.NoError(t, v.LoadModel(context.Background(), model()))

	err := v.Apply(viewer.Command{Kind: viewer.CmdFlipPlane})
	require.ErrorIs(t, err, section.ErrPlaneNotFound)

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdAddPlane, Axis: section.AxisX, Sign: section.Positive}))
	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdAddPlane, Axis: section.AxisY, Sign: section.Positive}))
	h2, _ := v.Selected()

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdNudgeConstant, Value: 10}))
	p, _ := v.Planes.Plane(h2)
	assert.InDelta(t, -0.5+0.1, p.Plane.Constant, 1e-5, "one tenth of the unit extent")

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdFlipPlane}))
	assert.True(t, p.Inverted)
	assert.Equal(t, math.Vec3{Y: -1}, p.Plane.Normal)
	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdFlipPlane}))
	assert.False(t, p.Inverted)

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdToggleHelper}))
	assert.False(t, p.HelperVisible)

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdSelectNext}))
	h, _ := v.Selected()
	assert.NotEqual(t, h2, h, "wrapped to the first plane")

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdDeletePlane}))
	assert.Equal(t, 1, v.Planes.Len())
	sel, ok := v.Selected()
	assert.True(t, ok)
	assert.Equal(t, h2, sel)

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdToggleTransparency}))
	assert.True(t, v.Subsets.Transparent())
}

func TestRemoveElements(t *testing.T) {
	v, _, _ := newContext(t, viewer.DefaultOptions())
	require.ErrorIs(t, v.RemoveElements(1), viewer.ErrNoModel)

	require.NoError(t, v.LoadModel(context.Background(), model()))
	require.NoError(t, v.RemoveElements(1, 4))

	s := v.Summary()
	assert.Equal(t, "row", s.Model)
	require.Len(t, s.Subsets, 2)
	assert.Equal(t, viewer.SubsetSummary{Name: "wireframe_elements", Members: 1, Triangles: 12, Outline: true}, s.Subsets[0])
	assert.Equal(t, viewer.SubsetSummary{Name: "everything_else", Members: 1, Triangles: 12}, s.Subsets[1])
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "flip-plane", viewer.CmdFlipPlane.String())
	assert.Equal(t, "CommandKind(99)", viewer.CommandKind(99).String())
}

func TestToggleBounds(t *testing.T) {
	v, _, _ := newContext(t, viewer.DefaultOptions())
	require.NoError(t, v.LoadModel(context.Background(), model()))
	before := v.Scene.Len()

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdToggleBounds}))
	assert.Equal(t, before+1, v.Scene.Len())

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdAddPlane, Axis: section.AxisY, Sign: section.Positive}))
	for _, n := range v.Scene.Nodes() {
		if n.Name == "bounds" {
			assert.Empty(t, n.Material.ClipPlanes, "overlay is never clipped")
		}
	}

	require.NoError(t, v.Apply(viewer.Command{Kind: viewer.CmdToggleBounds}))
	for _, n := range v.Scene.Nodes() {
		assert.NotEqual(t, "bounds", n.Name)
	}
}
