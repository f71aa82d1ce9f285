package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"instmesh/internal/instancing"
	"instmesh/internal/profiling"
)

// InstanceBuffer mirrors an AttributeSet on the GPU, one VBO per attribute.
// Attribute i of the set starts at vertex location base plus the locations used
// by the attributes before it; a buffer wider than four floats spans
// ceil(itemSize/4) consecutive locations.
type InstanceBuffer struct {
	set  *instancing.AttributeSet
	vbos map[instancing.AttributeID]uint32
}

func NewInstanceBuffer(set *instancing.AttributeSet) *InstanceBuffer {
	return &InstanceBuffer{set: set, vbos: make(map[instancing.AttributeID]uint32)}
}

// Attach allocates the VBOs and binds them as per-instance attributes of the
// currently bound VAO, returning the next free location.
func (b *InstanceBuffer) Attach(base uint32) uint32 {
	loc := base
	for _, id := range b.set.IDs() {
		size := b.set.ItemSize(id)
		data := b.set.Buffer(id)

		var vbo uint32
		gl.GenBuffers(1, &vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
		b.vbos[id] = vbo

		stride := int32(size * 4)
		for off := 0; off < size; off += 4 {
			n := int32(min(4, size-off))
			gl.EnableVertexAttribArray(loc)
			gl.VertexAttribPointerWithOffset(loc, n, gl.FLOAT, false, stride, uintptr(off*4))
			gl.VertexAttribDivisor(loc, 1)
			loc++
		}
		b.set.ClearDirty(id)
	}
	return loc
}

// Upload sends the first count items of every dirty buffer and clears the flags.
// Slots past count are never drawn, so their contents may lag behind.
func (b *InstanceBuffer) Upload(count int) {
	defer profiling.Track("graphics.Upload")()
	for _, id := range b.set.IDs() {
		if !b.set.Dirty(id) {
			continue
		}
		vbo, ok := b.vbos[id]
		if !ok {
			continue
		}
		if n := count * b.set.ItemSize(id); n > 0 {
			data := b.set.Buffer(id)
			gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*4, gl.Ptr(data[:n]))
		}
		b.set.ClearDirty(id)
	}
}

func (b *InstanceBuffer) Dispose() {
	for id, vbo := range b.vbos {
		gl.DeleteBuffers(1, &vbo)
		delete(b.vbos, id)
	}
}
