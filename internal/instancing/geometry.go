package instancing

import (
	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/geom"
)

// Geometry is the shared shape every instance draws. Only its bounds matter here;
// Positions lets the bounds be derived when they were not supplied.
type Geometry struct {
	Positions      []mgl32.Vec3
	BoundingBox    *geom.Box
	BoundingSphere *geom.Sphere
}

// ComputeBoundingBox derives BoundingBox from Positions. It reports false when
// there are no positions.
func (g *Geometry) ComputeBoundingBox() bool {
	if len(g.Positions) == 0 {
		return false
	}
	b := geom.EmptyBox()
	for _, p := range g.Positions {
		b = b.ExpandByPoint(p)
	}
	g.BoundingBox = &b
	return true
}

// ComputeBoundingSphere derives BoundingSphere from Positions.
func (g *Geometry) ComputeBoundingSphere() bool {
	s, ok := geom.BoundingSphere(g.Positions)
	if !ok {
		return false
	}
	g.BoundingSphere = &s
	return true
}
