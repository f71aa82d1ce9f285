package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEmptyBoxUnionIsIdentity(t *testing.T) {
	b := NewBox(mgl32.Vec3{-1, -2, -3}, mgl32.Vec3{1, 2, 3})
	if got := EmptyBox().Union(b); got != b {
		t.Fatalf("empty ∪ b = %v, want %v", got, b)
	}
	if got := b.Union(EmptyBox()); got != b {
		t.Fatalf("b ∪ empty = %v, want %v", got, b)
	}
	if !EmptyBox().IsEmpty() {
		t.Errorf("EmptyBox should be empty")
	}
	if s := EmptyBox().Size(); s != (mgl32.Vec3{}) {
		t.Errorf("empty size = %v, want zero", s)
	}
}

func TestLongestAxis(t *testing.T) {
	// x wins every tie and y wins a y/z tie; changing this moves the BVH split planes
	cases := []struct {
		size mgl32.Vec3
		want Axis
	}{
		{mgl32.Vec3{3, 1, 1}, AxisX},
		{mgl32.Vec3{1, 3, 1}, AxisY},
		{mgl32.Vec3{1, 1, 3}, AxisZ},
		{mgl32.Vec3{2, 2, 2}, AxisX},
		{mgl32.Vec3{2, 2, 1}, AxisX},
		{mgl32.Vec3{2, 1, 2}, AxisX},
		{mgl32.Vec3{1, 2, 2}, AxisY},
	}
	for _, c := range cases {
		b := NewBox(mgl32.Vec3{}, c.size)
		if got := b.LongestAxis(); got != c.want {
			t.Errorf("LongestAxis(%v) = %v, want %v", c.size, got, c.want)
		}
	}
}

func TestTransformTranslatesAndScales(t *testing.T) {
	unit := NewBox(mgl32.Vec3{-0.5, -0.5, -0.5}, mgl32.Vec3{0.5, 0.5, 0.5})
	m := Compose(mgl32.Vec3{10, 0, -4}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2})
	got := unit.Transform(m)
	want := NewBox(mgl32.Vec3{9, -1, -5}, mgl32.Vec3{11, 1, -3})
	if !got.ApproxEqual(want, 1e-5) {
		t.Fatalf("Transform = %v, want %v", got, want)
	}
}

func TestTransformRotationEnclosesCorners(t *testing.T) {
	unit := NewBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	rot := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
	got := unit.Transform(Compose(mgl32.Vec3{}, rot, mgl32.Vec3{1, 1, 1}))
	// a cube rotated 45° about Y spans sqrt(2) on X and Z
	if !mgl32.FloatEqualThreshold(got.Max[0], 1.41421, 1e-4) || !mgl32.FloatEqualThreshold(got.Max[2], 1.41421, 1e-4) {
		t.Fatalf("rotated box = %v", got)
	}
	if !mgl32.FloatEqualThreshold(got.Max[1], 1, 1e-5) {
		t.Errorf("Y extent changed: %v", got)
	}
}

func TestCenterAndSize(t *testing.T) {
	b := NewBox(mgl32.Vec3{4, 0, 2}, mgl32.Vec3{-2, 6, -2})
	if c := b.Center(); c != (mgl32.Vec3{1, 3, 0}) {
		t.Errorf("Center = %v", c)
	}
	if s := b.Size(); s != (mgl32.Vec3{6, 6, 4}) {
		t.Errorf("Size = %v", s)
	}
}
