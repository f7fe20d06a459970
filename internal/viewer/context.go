// Package viewer ties the subset registry, the section planes, the camera
// and a render backend into one explicit viewer context.
package viewer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/classify"
	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/debug"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/internal/section"
	"github.com/Faultbox/sectionview/internal/subset"
	"github.com/Faultbox/sectionview/pkg/ifc"
	"github.com/Faultbox/sectionview/pkg/math"
)

// ErrNoModel is returned by operations that need a loaded model.
var ErrNoModel = errors.New("no model loaded")

// Renderer draws a scene. Backends clear the stencil buffer themselves when
// the draw list asks for it; ClearStencil is exposed for hosts that compose
// extra passes.
type Renderer interface {
	Render(sc *scene.Scene, cam camera.Camera, clip scene.ClipTable) error
	ClearStencil()
}

// Options configures a Context.
type Options struct {
	WireframeCategories []ifc.Category
	WireframeSubset     string
	RestSubset          string
	Subset              subset.Style
	Section             section.Style
	ClassifyConcurrency int
	// Service overrides the in-process classification service.
	Service classify.Service
}

// DefaultOptions returns the default viewer options.
func DefaultOptions() Options {
	return Options{
		WireframeCategories: ifc.WireframeCategories,
		WireframeSubset:     "wireframe_elements",
		RestSubset:          "everything_else",
		Subset:              subset.DefaultStyle(),
		Section:             section.DefaultStyle(),
	}
}

// Context owns all mutable viewer state. It is not safe for concurrent use;
// the host calls it from one thread.
type Context struct {
	Scene    *scene.Scene
	Camera   camera.Camera
	Renderer Renderer
	Catalog  *ifc.Catalog
	Subsets  *subset.Registry
	Planes   *section.Manager
	Resolver *classify.Resolver
	Model    *ifc.Model

	opts     Options
	log      *zap.Logger
	selected section.Handle
	bounds   *scene.Node
	frames   uint64
}

// New creates a viewer context with an empty scene.
func New(r Renderer, cam camera.Camera, opts Options, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	sc := scene.New()
	cat := ifc.NewCatalog()

	var svc classify.Service = cat
	if opts.Service != nil {
		svc = opts.Service
	}

	c := &Context{
		Scene:    sc,
		Camera:   cam,
		Renderer: r,
		Catalog:  cat,
		Resolver: classify.NewResolver(svc,
			classify.WithLogger(log.Named("classify")),
			classify.WithConcurrency(opts.ClassifyConcurrency)),
		opts: opts,
		log:  log,
	}
	c.Subsets = subset.NewRegistry(cat, sc, opts.Subset, log.Named("subset"))
	c.Planes = section.NewManager(sc, c.Subsets, opts.Section, log.Named("section"))
	c.Subsets.OnChange(c.Planes.Rebuild)
	return c
}

// LoadModel replaces the active model. Elements of the wireframe categories
// go to the outlined wireframe subset and everything else to the rest
// subset. If classification fails the whole model goes to the rest subset
// and the error is returned after the model is shown. Section planes are
// kept and refitted to the new model.
func (c *Context) LoadModel(ctx context.Context, m *ifc.Model) error {
	prev := c.Model
	id, err := c.Catalog.Add(m)
	if err != nil {
		return fmt.Errorf("load model %q: %w", m.Name, err)
	}

	c.Subsets.Clear()
	if prev != nil {
		c.Catalog.Remove(prev.ID)
	}
	c.Model = m

	all := ifc.ExtractIDs(m.Mesh)
	wire, classifyErr := c.Resolver.ResolveSet(ctx, id, c.opts.WireframeCategories)
	if classifyErr != nil {
		c.log.Warn("showing model without wireframe classification", zap.Error(classifyErr))
		wire = ifc.NewIDSet()
	}
	wire = wire.Intersect(all)
	rest := all.Difference(wire)

	if _, err := c.Subsets.CreateSubset(id, wire, c.opts.WireframeSubset, subset.OutlineEdges); err != nil {
		return err
	}
	if _, err := c.Subsets.CreateSubset(id, rest, c.opts.RestSubset, subset.OutlineNone); err != nil {
		return err
	}

	if c.bounds != nil {
		c.ShowBounds(true)
	}
	if f, ok := c.Camera.(interface{ FitToBounds(math.Box3) }); ok && prev == nil {
		f.FitToBounds(c.Subsets.Bounds().Box())
	}

	c.log.Info("model loaded",
		zap.String("name", m.Name),
		zap.Int("elements", all.Len()),
		zap.Int("wireframe", wire.Len()),
		zap.Int("triangles", len(m.Mesh.Indices)/3))
	return classifyErr
}

// RemoveElements drops ids from every subset of the active model.
func (c *Context) RemoveElements(ids ...ifc.SemanticID) error {
	if c.Model == nil {
		return ErrNoModel
	}
	return c.Subsets.RemoveIDs(c.Model.ID, ifc.NewIDSet(ids...))
}

// Tick advances one frame: camera controls, cap placement, then drawing.
func (c *Context) Tick(dt float32) error {
	c.Camera.Update(dt)
	c.Planes.UpdateCaps()
	if err := c.Renderer.Render(c.Scene, c.Camera, c.Planes); err != nil {
		return fmt.Errorf("render frame %d: %w", c.frames, err)
	}
	c.frames++
	return nil
}

// Frames returns the number of frames rendered.
func (c *Context) Frames() uint64 {
	return c.frames
}

// Selected returns the plane the commands act on.
func (c *Context) Selected() (section.Handle, bool) {
	_, err := c.Planes.Plane(c.selected)
	return c.selected, err == nil
}

// Select makes h the target of plane commands.
func (c *Context) Select(h section.Handle) error {
	if _, err := c.Planes.Plane(h); err != nil {
		return err
	}
	c.selected = h
	return nil
}

// ShowBounds shows or hides a wireframe of the model bounds.
func (c *Context) ShowBounds(on bool) {
	if c.bounds != nil {
		c.Scene.Remove(c.bounds)
		c.bounds = nil
	}
	if on {
		c.bounds = debug.BBoxNode("bounds", c.Subsets.Bounds().Box(), c.opts.Section.HelperColor)
		c.Scene.Add(c.bounds)
	}
}
