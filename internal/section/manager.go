// Package section maintains the ordered set of cutting planes and the
// stencil-capped cross-section surfaces they produce.
package section

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/bounds"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

var (
	// ErrPlaneNotFound is returned for an out-of-range index or a stale handle.
	ErrPlaneNotFound = errors.New("section plane not found")
	// ErrTooManyPlanes is returned when the plane limit is reached.
	ErrTooManyPlanes = errors.New("too many section planes")
	// ErrInvalidAxis is returned for an axis or sign outside the allowed set.
	ErrInvalidAxis = errors.New("invalid plane axis")
)

// Solids supplies the surfaces to cap and their bounds.
type Solids interface {
	Solids() []*scene.Node
	Bounds() bounds.Info
}

// Style configures plane visuals.
type Style struct {
	CapColor    [3]float32
	HelperColor [3]float32
	// CapScale multiplies the cap quad size, which defaults to the model's
	// bounding sphere diameter.
	CapScale  float32
	MaxPlanes int
}

// DefaultStyle returns the default plane style.
func DefaultStyle() Style {
	return Style{
		CapColor:    [3]float32{0xe9 / 255.0, 0x1e / 255.0, 0x63 / 255.0},
		HelperColor: [3]float32{0, 0, 1},
		CapScale:    1,
		MaxPlanes:   8,
	}
}

type slot struct {
	gen   uint32
	plane *Plane
}

// Manager owns the cutting planes. Planes live in a generation-stamped slot
// table; materials reference them by handle and resolve through Lookup at
// draw time.
type Manager struct {
	scene  *scene.Scene
	solids Solids
	style  Style
	log    *zap.Logger

	slots   []slot
	free    []uint32
	order   []*Plane
	created int
}

// NewManager creates a manager with no planes.
func NewManager(sc *scene.Scene, solids Solids, style Style, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if style.CapScale <= 0 {
		style.CapScale = 1
	}
	return &Manager{scene: sc, solids: solids, style: style, log: log}
}

// Lookup implements scene.ClipTable.
func (m *Manager) Lookup(ref scene.ClipRef) (math.Plane, bool) {
	p := m.get(ref)
	if p == nil {
		return math.Plane{}, false
	}
	return p.Plane, true
}

func (m *Manager) get(h Handle) *Plane {
	if int(h.Slot) >= len(m.slots) {
		return nil
	}
	s := m.slots[h.Slot]
	if s.gen != h.Gen {
		return nil
	}
	return s.plane
}

func (m *Manager) resolve(h Handle) (*Plane, error) {
	p := m.get(h)
	if p == nil {
		return nil, fmt.Errorf("%w: slot %d gen %d", ErrPlaneNotFound, h.Slot, h.Gen)
	}
	return p, nil
}

func (m *Manager) alloc() Handle {
	if n := len(m.free); n > 0 {
		i := m.free[n-1]
		m.free = m.free[:n-1]
		return Handle{Slot: i, Gen: m.slots[i].gen}
	}
	m.slots = append(m.slots, slot{gen: 1})
	return Handle{Slot: uint32(len(m.slots) - 1), Gen: 1}
}

// AddPlane appends a plane normal to axis through the center of the current
// solids, then pushes the new plane list to every following material.
func (m *Manager) AddPlane(axis Axis, sign Sign) (Handle, error) {
	if !axis.valid() || (sign != Positive && sign != Negative) {
		return Handle{}, fmt.Errorf("%w: %v%v", ErrInvalidAxis, sign, axis)
	}
	if m.style.MaxPlanes > 0 && len(m.order) >= m.style.MaxPlanes {
		return Handle{}, fmt.Errorf("%w: limit is %d", ErrTooManyPlanes, m.style.MaxPlanes)
	}

	info := m.solids.Bounds()
	normal := axis.Unit().Scale(float32(sign))

	h := m.alloc()
	m.created++
	p := &Plane{
		Handle:        h,
		Name:          fmt.Sprintf("Plane %d", m.created),
		Axis:          axis,
		Sign:          sign,
		Plane:         math.NewPlaneFromPoint(normal, info.Center),
		HelperVisible: true,
		Extent:        extentOf(info),
		anchor:        info.Center,
	}
	m.slots[h.Slot].plane = p
	m.order = append(m.order, p)

	m.attach(p, info)
	m.Sync()
	m.updateCap(p)

	m.log.Info("section plane added",
		zap.String("name", p.Name),
		zap.Stringer("axis", axis),
		zap.Stringer("sign", sign),
		zap.Float32("constant", p.Plane.Constant),
		zap.Int("planes", len(m.order)))
	return h, nil
}

// extentOf is the model height, falling back to the largest dimension for
// flat models.
func extentOf(info bounds.Info) float32 {
	if e := info.Extent(); e > 0 {
		return e
	}
	size := info.Size()
	e := max(size.X, size.Y, size.Z)
	if e <= 0 {
		return 1
	}
	return e
}

func (m *Manager) capSize(info bounds.Info) float32 {
	return max(2*info.Radius, 1) * m.style.CapScale
}

// attach builds the cap, stencil passes and helper of p and adds them to the
// scene.
func (m *Manager) attach(p *Plane, info bounds.Info) {
	c := BuildCap(p.Handle, m.solids.Solids(), m.capSize(info), m.style.CapColor)
	p.stencil = c.Stencil
	p.cap = c.Cap
	p.cap.Name = p.Name + "/cap"
	p.helper = newHelper(p.Name, p.Extent*2, m.style.HelperColor)
	p.helper.Visible = p.HelperVisible
	m.scene.Add(c.All()...)
	m.scene.Add(p.helper)
}

func (m *Manager) detach(p *Plane) {
	m.scene.Remove(p.stencil...)
	m.scene.Remove(p.cap, p.helper)
	p.stencil, p.cap, p.helper = nil, nil, nil
}

// AdjustConstant moves a plane along its normal.
func (m *Manager) AdjustConstant(h Handle, c float32) error {
	p, err := m.resolve(h)
	if err != nil {
		return err
	}
	p.Plane.Constant = c
	return nil
}

// FlipPlane sets which half-space a plane keeps: the one chosen at creation
// when invert is false, the opposite one when true. The constant is kept.
func (m *Manager) FlipPlane(h Handle, invert bool) error {
	p, err := m.resolve(h)
	if err != nil {
		return err
	}
	s := float32(p.Sign)
	if invert {
		s = -s
	}
	p.Plane.Normal = p.Plane.Normal.WithComponent(int(p.Axis), s)
	p.Inverted = invert
	return nil
}

// DeletePlane removes a plane with its cap and helper. Planes after it move
// up one index; their handles stay valid while h becomes stale.
func (m *Manager) DeletePlane(h Handle) error {
	p, err := m.resolve(h)
	if err != nil {
		return err
	}
	m.detach(p)
	m.order = slices.DeleteFunc(m.order, func(q *Plane) bool { return q == p })
	m.slots[h.Slot] = slot{gen: h.Gen + 1}
	m.free = append(m.free, h.Slot)
	m.Sync()

	m.log.Info("section plane deleted", zap.String("name", p.Name), zap.Int("planes", len(m.order)))
	return nil
}

// SetHelperVisible shows or hides a plane's helper. Clipping is unaffected.
func (m *Manager) SetHelperVisible(h Handle, show bool) error {
	p, err := m.resolve(h)
	if err != nil {
		return err
	}
	p.HelperVisible = show
	p.helper.Visible = show
	return nil
}

// Len returns the number of active planes.
func (m *Manager) Len() int {
	return len(m.order)
}

// At returns the handle of the plane at index i.
func (m *Manager) At(i int) (Handle, error) {
	if i < 0 || i >= len(m.order) {
		return Handle{}, fmt.Errorf("%w: index %d of %d", ErrPlaneNotFound, i, len(m.order))
	}
	return m.order[i].Handle, nil
}

// Index returns the current position of h in the plane list.
func (m *Manager) Index(h Handle) (int, error) {
	p, err := m.resolve(h)
	if err != nil {
		return -1, err
	}
	return slices.Index(m.order, p), nil
}

// Plane returns the plane behind h.
func (m *Manager) Plane(h Handle) (*Plane, error) {
	return m.resolve(h)
}

// Planes returns a snapshot of the planes in order.
func (m *Manager) Planes() []Info {
	out := make([]Info, len(m.order))
	for i, p := range m.order {
		out[i] = p.info()
	}
	return out
}

// Handles returns the active handles in order.
func (m *Manager) Handles() []Handle {
	out := make([]Handle, len(m.order))
	for i, p := range m.order {
		out[i] = p.Handle
	}
	return out
}

// ConstantRange returns slider bounds for a plane's constant: one extent on
// either side of the position that passes through the model center.
func (m *Manager) ConstantRange(h Handle) (lo, hi float32, err error) {
	p, err := m.resolve(h)
	if err != nil {
		return 0, 0, err
	}
	mid := -p.anchor.Dot(p.Plane.Normal)
	return mid - p.Extent, mid + p.Extent, nil
}

// Rebuild recreates every plane's stencil passes and cap against the
// current solids. Call it after the subsets change.
func (m *Manager) Rebuild() {
	if len(m.order) == 0 {
		m.Sync()
		return
	}
	info := m.solids.Bounds()
	for _, p := range m.order {
		m.detach(p)
		p.anchor = info.Center
		p.Extent = extentOf(info)
		m.attach(p, info)
	}
	m.Sync()
	m.UpdateCaps()
	m.log.Debug("section caps rebuilt", zap.Int("planes", len(m.order)))
}

// Sync pushes the active plane list to every following material, points
// each cap at the other planes and assigns render orders: plane i draws its
// stencil passes at i+1 and its cap at i+1.1; solids follow at n+1 and
// line overlays at n+2.
func (m *Manager) Sync() {
	handles := m.Handles()
	n := len(handles)

	for _, node := range m.scene.Nodes() {
		mat := node.Material
		if mat == nil || mat.ClipMode != scene.ClipFollowAll {
			continue
		}
		mat.ClipPlanes = slices.Clone(handles)
		node.RenderOrder = float64(n + 1)
		if node.Geometry != nil && node.Geometry.Primitive == geom.Lines {
			node.RenderOrder = float64(n + 2)
		}
	}

	for i, p := range m.order {
		order := float64(i + 1)
		for _, s := range p.stencil {
			s.RenderOrder = order
		}
		p.cap.RenderOrder = order + 0.1
		others := make([]Handle, 0, n-1)
		for _, h := range handles {
			if h != p.Handle {
				others = append(others, h)
			}
		}
		p.cap.Material.ClipPlanes = others
		p.helper.RenderOrder = float64(n + 2)
	}
}

// UpdateCaps moves every cap and helper onto its plane. Run it once per frame.
func (m *Manager) UpdateCaps() {
	for _, p := range m.order {
		m.updateCap(p)
	}
}

func (m *Manager) updateCap(p *Plane) {
	pos := p.capPosition()
	placeCap(p.cap, pos, p.Plane.Normal)
	placeHelper(p.helper, pos, p.Plane.Normal, p.Inverted)
	p.helper.Visible = p.HelperVisible
}

// Clear deletes every plane. Outstanding handles become stale.
func (m *Manager) Clear() {
	for _, p := range slices.Clone(m.order) {
		_ = m.DeletePlane(p.Handle)
	}
}
