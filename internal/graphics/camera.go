package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/frustum"
)

// Camera orbits a target point and produces the view and projection matrices
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Target   mgl32.Vec3
	Distance float32
	// Yaw and Pitch are in degrees
	Yaw   float32
	Pitch float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  1000.0,
		Distance:  50.0,
		Pitch:     20.0,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio, ignoring a minimised window
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Orbit advances the yaw by degrees and clamps the pitch short of the poles
func (c *Camera) Orbit(yaw, pitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+yaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+pitch, -89, 89)
}

// Position returns the eye position on the orbit sphere
func (c *Camera) Position() mgl32.Vec3 {
	yaw := mgl32.DegToRad(c.Yaw)
	pitch := mgl32.DegToRad(c.Pitch)
	cp := float32(math.Cos(float64(pitch)))
	offset := mgl32.Vec3{
		cp * float32(math.Sin(float64(yaw))),
		float32(math.Sin(float64(pitch))),
		cp * float32(math.Cos(float64(yaw))),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection * view
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// Frustum returns the view volume for culling
func (c *Camera) Frustum() frustum.Frustum {
	return frustum.FromMatrix(c.ViewProjection())
}
