// Package geom holds the small geometry helpers shared by the tree builder and
// the instanced mesh: axis-aligned boxes, spheres and transform composition.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Axis selects a component of a Vec3.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Box is an axis-aligned bounding box. An empty box has Min at +Inf and Max at -Inf
// so that unions with it are the identity.
type Box struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box containing nothing.
func EmptyBox() Box {
	inf := float32(math.Inf(1))
	return Box{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// NewBox returns the box spanning the two corners in any order.
func NewBox(a, b mgl32.Vec3) Box {
	return Box{
		Min: mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max: mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
}

// IsEmpty reports whether the box contains no point.
func (b Box) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Min: MinVec(b.Min, o.Min),
		Max: MaxVec(b.Max, o.Max),
	}
}

// ExpandByPoint grows the box to include p.
func (b Box) ExpandByPoint(p mgl32.Vec3) Box {
	return Box{Min: MinVec(b.Min, p), Max: MaxVec(b.Max, p)}
}

// Size returns the box extent, zero for an empty box.
func (b Box) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint, zero for an empty box.
func (b Box) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// LongestAxis returns the axis with the largest extent. X wins ties; Y beats Z on
// a tie, so Z is picked only when strictly larger than both.
func (b Box) LongestAxis() Axis {
	s := b.Size()
	if s[0] >= s[1] && s[0] >= s[2] {
		return AxisX
	}
	if s[1] >= s[2] {
		return AxisY
	}
	return AxisZ
}

// Transform returns the box enclosing b after applying m to its eight corners.
func (b Box) Transform(m mgl32.Mat4) Box {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out = out.ExpandByPoint(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// ApproxEqual compares two boxes component-wise within eps.
func (b Box) ApproxEqual(o Box, eps float32) bool {
	if b.IsEmpty() && o.IsEmpty() {
		return true
	}
	for i := 0; i < 3; i++ {
		if !mgl32.FloatEqualThreshold(b.Min[i], o.Min[i], eps) || !mgl32.FloatEqualThreshold(b.Max[i], o.Max[i], eps) {
			return false
		}
	}
	return true
}

// MinVec returns the component-wise minimum of a and b.
func MinVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

// MaxVec returns the component-wise maximum of a and b.
func MaxVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}
