// Package frustum classifies boxes and spheres against a camera view volume.
package frustum

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/geom"
)

// Visibility is the tri-state result of testing a volume against a frustum.
type Visibility uint8

const (
	// Inside means the volume lies entirely within the frustum.
	Inside Visibility = iota
	// Intersect means the volume straddles at least one plane.
	Intersect
	// Outside means the volume lies entirely outside at least one plane.
	Outside
)

func (v Visibility) String() string {
	switch v {
	case Inside:
		return "inside"
	case Intersect:
		return "intersect"
	case Outside:
		return "outside"
	}
	return "unknown"
}

type plane struct {
	a, b, c, d float32
}

func (p plane) distance(x, y, z float32) float32 {
	return p.a*x + p.b*y + p.c*z + p.d
}

// Frustum holds six planes with normals pointing inward.
type Frustum struct {
	planes [6]plane
}

// FromMatrix builds a frustum from the combined projection*view matrix.
func FromMatrix(clip mgl32.Mat4) Frustum {
	// Matrix is in column-major order in mgl32
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	var f Frustum
	// Left  = m3 + m0
	f.planes[0] = normalizePlane(plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03})
	// Right = m3 - m0
	f.planes[1] = normalizePlane(plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03})
	// Bottom = m3 + m1
	f.planes[2] = normalizePlane(plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13})
	// Top = m3 - m1
	f.planes[3] = normalizePlane(plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13})
	// Near = m3 + m2
	f.planes[4] = normalizePlane(plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23})
	// Far = m3 - m2
	f.planes[5] = normalizePlane(plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23})
	return f
}

// FromCamera builds a frustum from separate projection and view matrices.
func FromCamera(proj, view mgl32.Mat4) Frustum {
	return FromMatrix(proj.Mul4(view))
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// ClassifyBox reports whether b is inside, outside or straddling the frustum.
// Empty boxes are outside.
func (f *Frustum) ClassifyBox(b geom.Box) Visibility {
	if b.IsEmpty() {
		return Outside
	}
	result := Inside
	for i := range f.planes {
		p := f.planes[i]
		// positive vertex is the corner furthest along the normal, negative the nearest
		px, nx := b.Max[0], b.Min[0]
		if p.a < 0 {
			px, nx = nx, px
		}
		py, ny := b.Max[1], b.Min[1]
		if p.b < 0 {
			py, ny = ny, py
		}
		pz, nz := b.Max[2], b.Min[2]
		if p.c < 0 {
			pz, nz = nz, pz
		}
		if p.distance(px, py, pz) < 0 {
			return Outside
		}
		if p.distance(nx, ny, nz) < 0 {
			result = Intersect
		}
	}
	return result
}

// IntersectsSphere reports whether any part of s lies within the frustum.
func (f *Frustum) IntersectsSphere(s geom.Sphere) bool {
	for i := range f.planes {
		if f.planes[i].distance(s.Center[0], s.Center[1], s.Center[2]) < -s.Radius {
			return false
		}
	}
	return true
}
