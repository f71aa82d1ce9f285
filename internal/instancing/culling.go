package instancing

import (
	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/frustum"
	"instmesh/internal/geom"
	"instmesh/internal/profiling"
)

// UpdateCulling classifies the instances against f and repacks the buffers so the
// active prefix holds exactly the visible, in-frustum instances. It returns the
// instances that entered and left the prefix; the slices are reused by the next
// call.
func (m *Mesh) UpdateCulling(f *frustum.Frustum) (shown, hidden []*Entity) {
	if !m.perObjectCulled {
		return nil, nil
	}
	defer profiling.Track("instancing.UpdateCulling")()

	m.frustum = *f
	m.show = m.show[:0]
	m.hide = m.hide[:0]

	switch m.behaviour {
	case Static:
		m.cullStatic()
	case Dynamic:
		m.cullDynamic()
	}

	m.setInstancesVisibility(m.show, m.hide)
	m.flushPending()
	profiling.Add("instancing.shown", len(m.show))
	profiling.Add("instancing.hidden", len(m.hide))
	return m.show, m.hide
}

// UpdateCullingMatrix is UpdateCulling for a combined projection*view matrix.
func (m *Mesh) UpdateCullingMatrix(viewProj mgl32.Mat4) (shown, hidden []*Entity) {
	f := frustum.FromMatrix(viewProj)
	return m.UpdateCulling(&f)
}

func (m *Mesh) cullStatic() {
	m.showIDs, m.hideIDs = m.tree.UpdateCulling(&m.frustum, m.showIDs[:0], m.hideIDs[:0])
	for _, id := range m.showIDs {
		e := m.instances[id]
		e.inFrustum = true
		if e.visible {
			m.show = append(m.show, e)
		}
	}
	for _, id := range m.hideIDs {
		e := m.instances[id]
		e.inFrustum = false
		if e.visible {
			m.hide = append(m.hide, e)
		}
	}
}

func (m *Mesh) cullDynamic() {
	bs := *m.geometry.BoundingSphere
	for _, e := range m.instances[:m.internalCount] {
		if !e.visible {
			continue
		}
		center := e.Rotation.Rotate(mgl32.Vec3{bs.Center[0] * e.Scale[0], bs.Center[1] * e.Scale[1], bs.Center[2] * e.Scale[2]})
		s := geom.Sphere{
			Center: e.Position.Add(center),
			Radius: bs.Radius * geom.MaxComponent(absVec(e.Scale)),
		}
		in := m.frustum.IntersectsSphere(s)
		if in == e.inFrustum {
			continue
		}
		e.inFrustum = in
		if in {
			m.show = append(m.show, e)
		} else {
			m.hide = append(m.hide, e)
		}
	}
}

func absVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{mgl32.Abs(v[0]), mgl32.Abs(v[1]), mgl32.Abs(v[2])}
}

// SetActiveCount enables the first n instances by ID and disables the rest,
// bypassing spatial classification. Every frustum flag is reset to inside, so the
// next UpdateCulling reclassifies all enabled instances.
func (m *Mesh) SetActiveCount(n int) {
	n = max(0, min(n, len(m.instances)))
	m.show = m.show[:0]
	m.hide = m.hide[:0]
	for i, e := range m.instances {
		want := i < n
		before := m.effective(e.visible, e.inFrustum)
		e.visible = want
		e.inFrustum = true
		switch {
		case want && !before:
			m.show = append(m.show, e)
		case !want && before:
			m.hide = append(m.hide, e)
		}
	}
	if m.tree != nil {
		m.tree.Reset(frustum.Inside)
	}
	m.setInstancesVisibility(m.show, m.hide)
	m.internalCount = n
	m.flushPending()
	m.markDirty()
}

// SetPerObjectFrustumCulled turns per-instance culling on or off. Turning it off
// renders every visible instance; turning it on makes the next UpdateCulling
// classify from scratch.
func (m *Mesh) SetPerObjectFrustumCulled(enabled bool) {
	if enabled == m.perObjectCulled {
		return
	}
	if m.tree != nil {
		m.tree.Reset(frustum.Inside)
	}
	if enabled {
		for _, e := range m.instances {
			e.inFrustum = true
		}
		m.perObjectCulled = true
		return
	}

	m.show = m.show[:0]
	for _, e := range m.instances {
		if e.visible && !e.inFrustum {
			m.show = append(m.show, e)
		}
		e.inFrustum = true
	}
	m.perObjectCulled = false
	m.setInstancesVisibility(m.show, nil)
	m.flushPending()
}
