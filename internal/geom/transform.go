package geom

import "github.com/go-gl/mathgl/mgl32"

// MatrixItemSize is the number of floats one instance matrix occupies.
const MatrixItemSize = 16

// Compose builds the TRS matrix for a position, rotation and scale.
func Compose(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// ComposeInto writes the TRS matrix in column-major order into dst, which must
// hold at least MatrixItemSize floats.
func ComposeInto(dst []float32, pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	m := Compose(pos, rot, scale)
	copy(dst[:MatrixItemSize], m[:])
}

// Decompose splits an affine TRS matrix back into position, rotation and scale.
// Shear is not supported.
func Decompose(m mgl32.Mat4) (pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	pos = m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	scale = mgl32.Vec3{sx, sy, sz}

	var r mgl32.Mat3
	if sx != 0 {
		r.SetCol(0, m.Col(0).Vec3().Mul(1/sx))
	}
	if sy != 0 {
		r.SetCol(1, m.Col(1).Vec3().Mul(1/sy))
	}
	if sz != 0 {
		r.SetCol(2, m.Col(2).Vec3().Mul(1/sz))
	}
	rot = mgl32.Mat4ToQuat(r.Mat4())
	return pos, rot, scale
}

// MaxComponent returns the largest component of v.
func MaxComponent(v mgl32.Vec3) float32 {
	if v[0] > v[1] {
		if v[0] > v[2] {
			return v[0]
		}
		return v[2]
	}
	if v[1] > v[2] {
		return v[1]
	}
	return v[2]
}
