package instancing

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/bvh"
	"instmesh/internal/frustum"
	"instmesh/internal/geom"
)

func unitCube() *Geometry {
	return &Geometry{Positions: []mgl32.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5},
	}}
}

// lineParams lays n cubes along X at x = id - n/2, z = -10, and tags each one's
// color with its ID so buffer moves can be traced.
func lineParams(n int, behaviour Behaviour) Params {
	white := mgl32.Vec3{1, 1, 1}
	return Params{
		Geometry:  unitCube(),
		Material:  "test",
		Count:     n,
		Color:     &white,
		Behaviour: behaviour,
		BVH:       &bvh.Options{Strategy: bvh.StrategyCenter, MaxLeafSize: 1, MaxDepth: 40},
		OnCreateEntity: func(e *Entity, i int) {
			e.Position = mgl32.Vec3{float32(i - n/2), 0, -10}
		},
	}
}

func newLineMesh(t testing.TB, n int, behaviour Behaviour) (*Mesh, *AttributeSet) {
	t.Helper()
	p := lineParams(n, behaviour)
	attrs, err := p.NewAttributeSet()
	if err != nil {
		t.Fatalf("NewAttributeSet: %v", err)
	}
	m, err := New(p, attrs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, e := range m.Instances() {
		if err := e.SetColor(mgl32.Vec3{float32(e.ID()), 0, 0}); err != nil {
			t.Fatalf("SetColor: %v", err)
		}
	}
	return m, attrs
}

// orthoView sees x in [cx-10, cx+10], y in [-10, 10], looking down -Z.
func orthoView(cx float32) frustum.Frustum {
	proj := mgl32.Ortho(-10, 10, -10, 10, 0.1, 100)
	view := mgl32.Translate3D(-cx, 0, 0)
	return frustum.FromCamera(proj, view)
}

// checkInvariants verifies the slot table is a permutation, the active prefix holds
// exactly the rendered instances, and the attribute buffers moved with them.
func checkInvariants(t *testing.T, m *Mesh) {
	t.Helper()
	seen := make(map[*Entity]bool, len(m.slots))
	for s, e := range m.slots {
		if e.slot != s {
			t.Fatalf("slot table: entity %d at %d thinks it is at %d", e.id, s, e.slot)
		}
		if seen[e] {
			t.Fatalf("entity %d stored twice", e.id)
		}
		seen[e] = true
	}
	if len(seen) != len(m.instances) {
		t.Fatalf("slot table holds %d entities, want %d", len(seen), len(m.instances))
	}

	for _, e := range m.instances {
		if want := m.effective(e.visible, e.inFrustum); (e.slot < m.count) != want {
			t.Fatalf("entity %d at slot %d (count %d): rendered=%v, want %v", e.id, e.slot, m.count, e.slot < m.count, want)
		}
		if m.hasColor {
			c, _ := m.colorAt(e.slot)
			if int(c[0]) != e.id {
				t.Fatalf("color of entity %d found at slot %d tagged %v", e.id, e.slot, c[0])
			}
		}
		if !e.needsUpdate {
			off := e.slot * MatrixItemSize
			buf := m.host.Buffer(AttributeMatrix)
			got := mgl32.Vec3{buf[off+12], buf[off+13], buf[off+14]}
			if !got.ApproxEqual(e.Position) {
				t.Fatalf("matrix of entity %d at slot %d has translation %v, want %v", e.id, e.slot, got, e.Position)
			}
		}
	}
}

func renderedIDs(m *Mesh) map[int]bool {
	out := make(map[int]bool, m.Count())
	for s := 0; s < m.Count(); s++ {
		out[m.AtSlot(s).ID()] = true
	}
	return out
}

func instanceBox(m *Mesh, e *Entity) geom.Box {
	return m.geometry.BoundingBox.Transform(e.Matrix())
}
