// Package subset partitions a model's mesh into disjoint, named groups of
// semantic ids, each rendered as its own scene node.
package subset

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/bounds"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/ifc"
)

// ErrUnknownSubset is returned for a name that was never registered.
var ErrUnknownSubset = errors.New("unknown subset")

// OutlineMode selects whether a subset gets an edge overlay.
type OutlineMode int

const (
	OutlineNone OutlineMode = iota
	OutlineEdges
)

func (m OutlineMode) String() string {
	if m == OutlineEdges {
		return "edges"
	}
	return "none"
}

// Extractor builds the geometry for a set of ids of a model.
type Extractor interface {
	ExtractSubsetGeometry(modelID ifc.ModelID, ids ifc.IDSet) (*geom.Geometry, error)
}

// Style holds the colors and thresholds used for subset materials.
type Style struct {
	Color              [3]float32
	Colors             map[string][3]float32 // per-subset overrides
	OutlineColor       [3]float32
	TransparentOpacity float32
	EdgeThreshold      float64 // degrees
}

// DefaultStyle returns the default subset style.
func DefaultStyle() Style {
	return Style{
		Color:              [3]float32{1, 1, 1},
		OutlineColor:       [3]float32{0, 0, 0},
		TransparentOpacity: 0.5,
		EdgeThreshold:      geom.DefaultEdgeThreshold,
	}
}

func (s Style) colorFor(name string) [3]float32 {
	if c, ok := s.Colors[name]; ok {
		return c
	}
	return s.Color
}

// Subset is one named partition of a model.
type Subset struct {
	Name        string
	ModelID     ifc.ModelID
	Members     ifc.IDSet
	Outline     OutlineMode
	Geometry    *geom.Geometry
	Node        *scene.Node
	OutlineNode *scene.Node
}

// Registry owns every subset of the loaded model and keeps their members
// pairwise disjoint.
type Registry struct {
	ext   Extractor
	scene *scene.Scene
	style Style
	log   *zap.Logger

	subsets     map[string]*Subset
	order       []string
	transparent bool
	onChange    []func()
}

// NewRegistry creates an empty registry that adds its nodes to sc.
func NewRegistry(ext Extractor, sc *scene.Scene, style Style, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		ext:     ext,
		scene:   sc,
		style:   style,
		log:     log,
		subsets: make(map[string]*Subset),
	}
}

// OnChange registers fn to run after any subset geometry changes.
func (r *Registry) OnChange(fn func()) {
	r.onChange = append(r.onChange, fn)
}

func (r *Registry) changed() {
	for _, fn := range r.onChange {
		fn()
	}
}

// CreateSubset registers a subset named name whose members are exactly ids.
// The ids are first removed from every other subset, which are rebuilt. An
// existing subset of the same name is replaced and its nodes leave the scene.
func (r *Registry) CreateSubset(modelID ifc.ModelID, ids ifc.IDSet, name string, outline OutlineMode) (*Subset, error) {
	members := ids.Clone()
	g, err := r.ext.ExtractSubsetGeometry(modelID, members)
	if err != nil {
		return nil, fmt.Errorf("create subset %q: %w", name, err)
	}

	var errs []error
	for _, other := range r.ordered() {
		if other.Name == name || !other.Members.RemoveAll(members) {
			continue
		}
		if err := r.rebuild(other); err != nil {
			errs = append(errs, err)
		}
	}

	s := &Subset{
		Name:     name,
		ModelID:  modelID,
		Members:  members,
		Outline:  outline,
		Geometry: g,
	}
	s.Node = scene.NewNode(name, g, r.meshMaterial(name, outline))
	if outline == OutlineEdges {
		s.OutlineNode = scene.NewNode(name+"/outline", r.edges(g), r.outlineMaterial(name))
	}

	if old, ok := r.subsets[name]; ok {
		r.detach(old)
	} else {
		r.order = append(r.order, name)
	}
	r.subsets[name] = s
	r.scene.Add(s.Node)
	if s.OutlineNode != nil {
		r.scene.Add(s.OutlineNode)
	}

	r.log.Info("subset created",
		zap.String("name", name),
		zap.Int("members", members.Len()),
		zap.Int("triangles", len(g.Indices)/3),
		zap.Stringer("outline", outline))
	r.changed()
	return s, errors.Join(errs...)
}

// RemoveIDs drops ids from every subset of the model and rebuilds the
// geometry of each subset whose membership changed.
func (r *Registry) RemoveIDs(modelID ifc.ModelID, ids ifc.IDSet) error {
	var errs []error
	var n int
	for _, s := range r.ordered() {
		if s.ModelID != modelID || !s.Members.RemoveAll(ids) {
			continue
		}
		n++
		if err := r.rebuild(s); err != nil {
			errs = append(errs, err)
		}
	}
	if n > 0 {
		r.changed()
	}
	return errors.Join(errs...)
}

// Refresh re-extracts the geometry of one subset.
func (r *Registry) Refresh(name string) error {
	s, ok := r.subsets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSubset, name)
	}
	if err := r.rebuild(s); err != nil {
		return err
	}
	r.changed()
	return nil
}

func (r *Registry) rebuild(s *Subset) error {
	g, err := r.ext.ExtractSubsetGeometry(s.ModelID, s.Members)
	if err != nil {
		return fmt.Errorf("rebuild subset %q: %w", s.Name, err)
	}
	s.Geometry = g
	s.Node.Geometry = g
	if s.OutlineNode != nil {
		s.OutlineNode.Geometry = r.edges(g)
	}
	r.log.Debug("subset rebuilt", zap.String("name", s.Name), zap.Int("members", s.Members.Len()))
	return nil
}

func (r *Registry) edges(g *geom.Geometry) *geom.Geometry {
	return geom.Edges(g, r.style.EdgeThreshold)
}

func (r *Registry) meshMaterial(name string, outline OutlineMode) *scene.Material {
	m := scene.NewMaterial(name, r.style.colorFor(name))
	m.Side = scene.DoubleSide
	m.ClipMode = scene.ClipFollowAll
	m.PolygonOffset = outline == OutlineEdges
	m.SetTransparent(r.transparent, r.style.TransparentOpacity)
	return m
}

func (r *Registry) outlineMaterial(name string) *scene.Material {
	m := scene.NewMaterial(name+"/outline", r.style.OutlineColor)
	m.ClipMode = scene.ClipFollowAll
	return m
}

// ToggleTransparency flips the global transparency flag and returns the new
// state.
func (r *Registry) ToggleTransparency() bool {
	r.SetTransparent(!r.transparent)
	return r.transparent
}

// SetTransparent applies the transparency flag to every subset material.
func (r *Registry) SetTransparent(on bool) {
	r.transparent = on
	for _, s := range r.subsets {
		s.Node.Material.SetTransparent(on, r.style.TransparentOpacity)
	}
}

// Transparent reports the global transparency flag.
func (r *Registry) Transparent() bool {
	return r.transparent
}

// Get returns the subset registered under name.
func (r *Registry) Get(name string) (*Subset, bool) {
	s, ok := r.subsets[name]
	return s, ok
}

// Names returns subset names in creation order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Len returns the number of subsets.
func (r *Registry) Len() int {
	return len(r.order)
}

// Solids returns the mesh nodes of every subset that has triangles, in
// creation order. These are the surfaces the section engine caps.
func (r *Registry) Solids() []*scene.Node {
	var out []*scene.Node
	for _, s := range r.ordered() {
		if !s.Geometry.IsEmpty() {
			out = append(out, s.Node)
		}
	}
	return out
}

// Outlines returns the outline nodes in creation order.
func (r *Registry) Outlines() []*scene.Node {
	var out []*scene.Node
	for _, s := range r.ordered() {
		if s.OutlineNode != nil {
			out = append(out, s.OutlineNode)
		}
	}
	return out
}

// Bounds recomputes the bounds of every solid.
func (r *Registry) Bounds() bounds.Info {
	var srcs []bounds.Source
	for _, n := range r.Solids() {
		srcs = append(srcs, bounds.Source{Geometry: n.Geometry, Transform: n.Transform})
	}
	return bounds.Compute(srcs...)
}

// Clear removes every subset and its nodes.
func (r *Registry) Clear() {
	for _, s := range r.subsets {
		r.detach(s)
	}
	r.subsets = make(map[string]*Subset)
	r.order = nil
	r.changed()
}

func (r *Registry) detach(s *Subset) {
	r.scene.Remove(s.Node)
	if s.OutlineNode != nil {
		r.scene.Remove(s.OutlineNode)
	}
}

func (r *Registry) ordered() []*Subset {
	out := make([]*Subset, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.subsets[name])
	}
	return out
}
