package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// BoundingSphere returns a sphere centered on the box of points that encloses all
// of them. It returns false when points is empty.
func BoundingSphere(points []mgl32.Vec3) (Sphere, bool) {
	if len(points) == 0 {
		return Sphere{}, false
	}
	box := EmptyBox()
	for _, p := range points {
		box = box.ExpandByPoint(p)
	}
	c := box.Center()
	var r2 float32
	for _, p := range points {
		d := p.Sub(c)
		r2 = max(r2, d.Dot(d))
	}
	return Sphere{Center: c, Radius: float32(math.Sqrt(float64(r2)))}, true
}
