package instancing

import (
	"fmt"
	"sort"

	"instmesh/internal/profiling"
)

// effective is the state that decides whether an instance sits in the active prefix.
func (m *Mesh) effective(visible, inFrustum bool) bool {
	return visible && (!m.perObjectCulled || inFrustum)
}

// setInstanceVisibility handles a single toggle by swapping the instance with the
// slot at the boundary.
func (m *Mesh) setInstanceVisibility(e *Entity, v bool) {
	before := m.effective(e.visible, e.inFrustum)
	after := m.effective(v, e.inFrustum)
	e.visible = v
	if before == after {
		return
	}

	if after {
		m.swapInstance(e, m.count)
		m.count++
		if e.needsUpdate {
			e.ForceUpdateMatrix()
		}
	} else {
		m.swapInstance(e, m.count-1)
		m.count--
	}
	m.markDirty()
}

// setInstancesVisibility moves every entity of show into the active prefix and
// every entity of hide out of it. Entities of show must currently be outside the
// prefix and entities of hide inside it. Both slices are sorted in place by slot.
func (m *Mesh) setInstancesVisibility(show, hide []*Entity) {
	if len(show) == 0 && len(hide) == 0 {
		return
	}
	defer profiling.Track("instancing.setInstancesVisibility")()

	sortBySlot(show)
	sortBySlot(hide)

	// smallest shown with largest hidden: every pair straddles the boundary
	paired := min(len(show), len(hide))
	last := len(hide) - 1
	for i := 0; i < paired; i++ {
		m.swapPair(show[i], hide[last-i])
	}

	switch {
	case len(show) > len(hide):
		m.showInstances(show[paired:])
	case len(hide) > len(show):
		m.hideInstances(hide[:len(hide)-paired])
	}
	m.markDirty()
}

// showInstances grows the prefix over entities, all of which sit at or beyond
// the boundary and are sorted by slot.
func (m *Mesh) showInstances(entities []*Entity) {
	start, end := 0, len(entities)-1
	for end >= start {
		if entities[start].slot == m.count {
			start++
		} else {
			m.swapInstance(entities[end], m.count)
			end--
		}
		m.count++
	}
}

// hideInstances shrinks the prefix over entities, all of which sit inside it and
// are sorted by slot.
func (m *Mesh) hideInstances(entities []*Entity) {
	start, end := 0, len(entities)-1
	for end >= start {
		if entities[end].slot == m.count-1 {
			end--
		} else {
			m.swapInstance(entities[start], m.count-1)
			start++
		}
		m.count--
	}
}

// swapInstance moves e into slot to, moving the previous occupant into e's slot.
func (m *Mesh) swapInstance(e *Entity, to int) {
	if to < 0 || to >= len(m.slots) {
		panic(fmt.Sprintf("instancing: slot %d out of range [0, %d)", to, len(m.slots)))
	}
	other := m.slots[to]
	if other == e {
		return
	}
	m.exchange(e, other)
}

func (m *Mesh) swapPair(a, b *Entity) {
	if a == b {
		return
	}
	m.exchange(a, b)
}

func (m *Mesh) exchange(a, b *Entity) {
	sa, sb := a.slot, b.slot
	swapAttributes(m.host, m.specs, sa, sb)
	m.slots[sa], m.slots[sb] = b, a
	a.slot, b.slot = sb, sa
}

func sortBySlot(entities []*Entity) {
	sort.Slice(entities, func(i, j int) bool { return entities[i].slot < entities[j].slot })
}
