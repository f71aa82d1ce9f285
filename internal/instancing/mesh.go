// Package instancing keeps the per-instance attribute buffers of an instanced
// mesh packed so that the instances to draw always occupy the first Count slots.
package instancing

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/bvh"
	"instmesh/internal/config"
	"instmesh/internal/frustum"
	"instmesh/internal/geom"
)

// Behaviour selects how instances are culled.
type Behaviour int

const (
	// Static instances are culled through a BVH built once at construction.
	// Moving them afterwards does not update the tree.
	Static Behaviour = iota
	// Dynamic instances are tested one by one against the frustum every pass.
	Dynamic
)

func (b Behaviour) String() string {
	if b == Dynamic {
		return "dynamic"
	}
	return "static"
}

var (
	ErrNoGeometry       = errors.New("instancing: geometry is mandatory")
	ErrNoMaterial       = errors.New("instancing: material is mandatory")
	ErrNoCount          = errors.New("instancing: count is mandatory")
	ErrNoHost           = errors.New("instancing: attribute host is mandatory")
	ErrUnknownAttribute = errors.New("instancing: attribute not provided by host")
	ErrNoColorAttribute = errors.New("instancing: mesh has no color attribute")
)

// Params configures New.
type Params struct {
	Geometry *Geometry
	// Material is an opaque handle owned by the renderer.
	Material any
	Count    int

	// Color, when set, registers the color attribute and fills every slot with it.
	Color *mgl32.Vec3
	// Attributes lists custom per-instance buffers swapped along with the
	// built-in ones.
	Attributes []AttributeSpec

	Behaviour Behaviour
	// Hidden starts every instance invisible with an empty active prefix.
	Hidden bool
	// BVH overrides the tree options taken from config. Ignored for Dynamic.
	BVH *bvh.Options
	// OnCreateEntity runs once per instance before its matrix is first written.
	OnCreateEntity func(e *Entity, index int)
}

// AttributeSpecs lists every buffer a mesh built from p swaps.
func (p Params) AttributeSpecs() []AttributeSpec {
	specs := []AttributeSpec{{ID: AttributeMatrix, ItemSize: MatrixItemSize}}
	if p.Color != nil {
		specs = append(specs, AttributeSpec{ID: AttributeColor, ItemSize: ColorItemSize})
	}
	return append(specs, p.Attributes...)
}

// NewAttributeSet allocates an AttributeSet holding every buffer p needs.
func (p Params) NewAttributeSet() (*AttributeSet, error) {
	set := NewAttributeSet(p.Count)
	for _, s := range p.AttributeSpecs() {
		if err := set.Register(s.ID, s.ItemSize); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Mesh is an instanced mesh whose visible instances occupy slots [0, Count).
// It is not safe for concurrent use.
type Mesh struct {
	host      AttributeHost
	specs     []AttributeSpec
	geometry  *Geometry
	behaviour Behaviour
	hasColor  bool

	count         int
	internalCount int
	instances     []*Entity
	slots         []*Entity

	tree            *bvh.Tree
	perObjectCulled bool
	pending         []*Entity

	// reused between passes
	frustum frustum.Frustum
	showIDs []int32
	hideIDs []int32
	show    []*Entity
	hide    []*Entity
}

// New validates p, creates Count entities and, for Static meshes, builds the BVH.
func New(p Params, host AttributeHost) (*Mesh, error) {
	switch {
	case p.Geometry == nil:
		return nil, ErrNoGeometry
	case p.Material == nil:
		return nil, ErrNoMaterial
	case p.Count <= 0:
		return nil, ErrNoCount
	case host == nil:
		return nil, ErrNoHost
	}

	specs := p.AttributeSpecs()
	for _, s := range specs {
		if host.ItemSize(s.ID) != s.ItemSize || len(host.Buffer(s.ID)) < p.Count*s.ItemSize {
			return nil, fmt.Errorf("%w: %q (item size %d, %d slots)", ErrUnknownAttribute, s.ID, s.ItemSize, p.Count)
		}
	}

	m := &Mesh{
		host:            host,
		specs:           specs,
		geometry:        p.Geometry,
		behaviour:       p.Behaviour,
		hasColor:        p.Color != nil,
		internalCount:   p.Count,
		instances:       make([]*Entity, p.Count),
		slots:           make([]*Entity, p.Count),
		perObjectCulled: config.GetPerObjectCulling(),
	}
	if !p.Hidden {
		m.count = p.Count
	}

	for i := range m.instances {
		e := newEntity(m, i, !p.Hidden)
		m.instances[i] = e
		m.slots[i] = e
		if p.Color != nil {
			m.writeColor(i, *p.Color)
		}
		if p.OnCreateEntity != nil {
			p.OnCreateEntity(e, i)
		}
		e.ForceUpdateMatrix()
	}

	if err := m.prepareCulling(p); err != nil {
		return nil, err
	}
	m.markDirty()
	return m, nil
}

func (m *Mesh) prepareCulling(p Params) error {
	g := m.geometry
	if g.BoundingBox == nil {
		g.ComputeBoundingBox()
	}
	if g.BoundingSphere == nil {
		g.ComputeBoundingSphere()
	}

	switch m.behaviour {
	case Static:
		if g.BoundingBox == nil {
			return fmt.Errorf("build instance tree: %w", bvh.ErrNoBounds)
		}
		opts, err := treeOptions(p)
		if err != nil {
			return err
		}
		tree, err := m.buildTree(*g.BoundingBox, opts)
		if err != nil {
			return fmt.Errorf("build instance tree: %w", err)
		}
		m.tree = tree
	case Dynamic:
		if g.BoundingSphere == nil {
			return fmt.Errorf("dynamic culling: %w", bvh.ErrNoBounds)
		}
	default:
		return fmt.Errorf("instancing: unknown behaviour %d", int(m.behaviour))
	}
	return nil
}

func treeOptions(p Params) (bvh.Options, error) {
	if p.BVH != nil {
		opts := *p.BVH
		opts.InitiallyVisible = !p.Hidden
		return opts, nil
	}
	strategy, err := bvh.ParseStrategy(config.GetSplitStrategy())
	if err != nil {
		return bvh.Options{}, err
	}
	return bvh.Options{
		Strategy:         strategy,
		MaxLeafSize:      config.GetMaxLeafSize(),
		MaxDepth:         config.GetMaxDepth(),
		InitiallyVisible: !p.Hidden,
	}, nil
}

// buildTree places each instance by its position and bounds it by the geometry
// box in world space. The per-instance boxes live only for the duration of the
// build.
func (m *Mesh) buildTree(local geom.Box, opts bvh.Options) (*bvh.Tree, error) {
	positions := make([]mgl32.Vec3, len(m.instances))
	boxes := make([]geom.Box, len(m.instances))
	for i, e := range m.instances {
		positions[i] = e.Position
		boxes[i] = local.Transform(e.Matrix())
	}
	return bvh.Build(positions, boxes, opts)
}

// Count returns the number of instances to draw, which is the active prefix length.
func (m *Mesh) Count() int { return m.count }

// Capacity returns the total number of instances.
func (m *Mesh) Capacity() int { return len(m.instances) }

// InternalCount returns the number of instances enabled by SetActiveCount.
func (m *Mesh) InternalCount() int { return m.internalCount }

// Instances returns every entity ordered by ID.
func (m *Mesh) Instances() []*Entity { return m.instances }

// Instance returns the entity with the given ID.
func (m *Mesh) Instance(id int) *Entity { return m.instances[id] }

// AtSlot returns the entity currently stored in slot s.
func (m *Mesh) AtSlot(s int) *Entity { return m.slots[s] }

// Behaviour returns the culling behaviour chosen at construction.
func (m *Mesh) Behaviour() Behaviour { return m.behaviour }

// Tree returns the BVH of a Static mesh, nil for Dynamic.
func (m *Mesh) Tree() *bvh.Tree { return m.tree }

// Attributes lists the buffers the mesh keeps in slot order.
func (m *Mesh) Attributes() []AttributeSpec { return m.specs }

// PerObjectFrustumCulled reports whether UpdateCulling is active.
func (m *Mesh) PerObjectFrustumCulled() bool { return m.perObjectCulled }

func (m *Mesh) markDirty() {
	for _, s := range m.specs {
		m.host.MarkDirty(s.ID)
	}
}

func (m *Mesh) composeToArray(e *Entity) {
	off := e.slot * MatrixItemSize
	geom.ComposeInto(m.host.Buffer(AttributeMatrix)[off:off+MatrixItemSize], e.Position, e.Rotation, e.Scale)
	m.host.MarkDirty(AttributeMatrix)
}

func (m *Mesh) updateInstanceMatrix(e *Entity) {
	if m.perObjectCulled || !e.visible {
		if !e.needsUpdate {
			e.needsUpdate = true
			m.pending = append(m.pending, e)
		}
		return
	}
	e.ForceUpdateMatrix()
}

// flushPending writes deferred matrices of instances that are now rendered.
func (m *Mesh) flushPending() {
	kept := m.pending[:0]
	for _, e := range m.pending {
		if !e.needsUpdate {
			continue
		}
		if m.effective(e.visible, e.inFrustum) {
			e.ForceUpdateMatrix()
			continue
		}
		kept = append(kept, e)
	}
	clear(m.pending[len(kept):])
	m.pending = kept
}

func (m *Mesh) writeColor(slot int, c mgl32.Vec3) {
	off := slot * ColorItemSize
	copy(m.host.Buffer(AttributeColor)[off:off+ColorItemSize], c[:])
}

func (m *Mesh) setColorAt(slot int, c mgl32.Vec3) error {
	if !m.hasColor {
		return ErrNoColorAttribute
	}
	m.writeColor(slot, c)
	m.host.MarkDirty(AttributeColor)
	return nil
}

func (m *Mesh) colorAt(slot int) (mgl32.Vec3, error) {
	if !m.hasColor {
		return mgl32.Vec3{}, ErrNoColorAttribute
	}
	off := slot * ColorItemSize
	buf := m.host.Buffer(AttributeColor)
	return mgl32.Vec3{buf[off], buf[off+1], buf[off+2]}, nil
}
