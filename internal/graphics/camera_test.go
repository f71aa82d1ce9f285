package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/frustum"
	"instmesh/internal/geom"
)

func TestCameraOrbitPosition(t *testing.T) {
	c := NewCamera(800, 600)
	c.Pitch = 0
	c.Distance = 10

	if got := c.Position(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-4) {
		t.Fatalf("Position = %v, want (0,0,10)", got)
	}
	c.Orbit(90, 0)
	if got := c.Position(); !got.ApproxEqualThreshold(mgl32.Vec3{10, 0, 0}, 1e-4) {
		t.Fatalf("Position after orbit = %v, want (10,0,0)", got)
	}
	c.Orbit(0, 200)
	if c.Pitch != 89 {
		t.Errorf("Pitch = %v, want clamped to 89", c.Pitch)
	}
}

func TestCameraFrustumSeesTarget(t *testing.T) {
	c := NewCamera(900, 600)
	c.Target = mgl32.Vec3{5, 0, 5}
	f := c.Frustum()

	unit := geom.NewBox(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	at := unit.Transform(mgl32.Translate3D(5, 0, 5))
	if v := f.ClassifyBox(at); v != frustum.Inside {
		t.Errorf("target box: %v, want inside", v)
	}
	behind := unit.Transform(mgl32.Translate3D(c.Position().Add(c.Position().Sub(c.Target)).Elem()))
	if v := f.ClassifyBox(behind); v != frustum.Outside {
		t.Errorf("box behind the eye: %v, want outside", v)
	}
}

func TestCameraIgnoresEmptyViewport(t *testing.T) {
	c := NewCamera(900, 600)
	c.SetViewport(0, 0)
	if c.AspectRatio != 1.5 {
		t.Errorf("AspectRatio = %v, want 1.5", c.AspectRatio)
	}
}
