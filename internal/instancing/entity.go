package instancing

import (
	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/geom"
)

// Entity is one instance of a Mesh. Its ID never changes; its slot moves every
// time the mesh reorders the attribute buffers.
type Entity struct {
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Rotation mgl32.Quat

	mesh        *Mesh
	id          int
	slot        int
	visible     bool
	inFrustum   bool
	needsUpdate bool
}

func newEntity(m *Mesh, id int, visible bool) *Entity {
	return &Entity{
		Position:  mgl32.Vec3{},
		Scale:     mgl32.Vec3{1, 1, 1},
		Rotation:  mgl32.QuatIdent(),
		mesh:      m,
		id:        id,
		slot:      id,
		visible:   visible,
		inFrustum: visible,
	}
}

// ID returns the stable identity of the instance.
func (e *Entity) ID() int { return e.id }

// Slot returns the current index of the instance in the attribute buffers.
func (e *Entity) Slot() int { return e.slot }

// Visible reports the visibility requested by the application, regardless of
// frustum culling.
func (e *Entity) Visible() bool { return e.visible }

// InFrustum reports the result of the most recent culling pass.
func (e *Entity) InFrustum() bool { return e.inFrustum }

// Rendered reports whether the instance currently occupies the active prefix.
func (e *Entity) Rendered() bool { return e.slot < e.mesh.count }

// SetVisible shows or hides the instance outside the per-frame culling pass.
func (e *Entity) SetVisible(v bool) {
	e.mesh.setInstanceVisibility(e, v)
}

// Matrix composes the instance transform from its position, rotation and scale.
func (e *Entity) Matrix() mgl32.Mat4 {
	return geom.Compose(e.Position, e.Rotation, e.Scale)
}

// UpdateMatrix writes the transform to the matrix buffer, or defers the write
// until the instance is next rendered.
func (e *Entity) UpdateMatrix() {
	e.mesh.updateInstanceMatrix(e)
}

// ForceUpdateMatrix writes the transform immediately.
func (e *Entity) ForceUpdateMatrix() {
	e.mesh.composeToArray(e)
	e.needsUpdate = false
}

// SetColor writes the instance color.
func (e *Entity) SetColor(c mgl32.Vec3) error {
	return e.mesh.setColorAt(e.slot, c)
}

// Color reads the instance color.
func (e *Entity) Color() (mgl32.Vec3, error) {
	return e.mesh.colorAt(e.slot)
}

// ApplyMatrix4 premultiplies the instance transform by m and writes the result.
func (e *Entity) ApplyMatrix4(m mgl32.Mat4) {
	e.Position, e.Rotation, e.Scale = geom.Decompose(m.Mul4(e.Matrix()))
	e.ForceUpdateMatrix()
}

// ApplyQuaternion rotates the instance by q in world space.
func (e *Entity) ApplyQuaternion(q mgl32.Quat) {
	e.Rotation = q.Mul(e.Rotation)
}

// RotateOnAxis rotates the instance around a local axis.
func (e *Entity) RotateOnAxis(axis mgl32.Vec3, angle float32) {
	e.Rotation = e.Rotation.Mul(mgl32.QuatRotate(angle, axis))
}

// RotateOnWorldAxis rotates the instance around a world axis.
func (e *Entity) RotateOnWorldAxis(axis mgl32.Vec3, angle float32) {
	e.Rotation = mgl32.QuatRotate(angle, axis).Mul(e.Rotation)
}
