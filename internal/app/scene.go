package app

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/instancing"
)

// SceneOptions describes the demo grid
type SceneOptions struct {
	Count    int
	Spacing  float32
	Dynamic  bool
	Geometry *instancing.Geometry
}

// Scene is an instanced mesh laid out on a cube grid centered at the origin
type Scene struct {
	Mesh  *instancing.Mesh
	Attrs *instancing.AttributeSet

	side    int
	spacing float32
	phase   []float32
}

// NewScene places opts.Count instances on the smallest cube grid that holds them
// and colors each one by its grid coordinate.
func NewScene(opts SceneOptions) (*Scene, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("scene of %d instances: %w", opts.Count, instancing.ErrNoCount)
	}
	if opts.Spacing <= 0 {
		opts.Spacing = 2
	}
	side := int(math.Ceil(math.Cbrt(float64(opts.Count))))
	s := &Scene{side: side, spacing: opts.Spacing}

	behaviour := instancing.Static
	if opts.Dynamic {
		behaviour = instancing.Dynamic
		s.phase = make([]float32, opts.Count)
	}

	white := mgl32.Vec3{1, 1, 1}
	p := instancing.Params{
		Geometry:  opts.Geometry,
		Material:  "instances",
		Count:     opts.Count,
		Color:     &white,
		Behaviour: behaviour,
		OnCreateEntity: func(e *instancing.Entity, i int) {
			e.Position = s.gridPosition(i)
			if s.phase != nil {
				s.phase[i] = float32(i%97) / 97 * 2 * math.Pi
			}
		},
	}
	attrs, err := p.NewAttributeSet()
	if err != nil {
		return nil, fmt.Errorf("scene attributes: %w", err)
	}
	mesh, err := instancing.New(p, attrs)
	if err != nil {
		return nil, fmt.Errorf("scene mesh: %w", err)
	}
	s.Mesh = mesh
	s.Attrs = attrs

	for _, e := range mesh.Instances() {
		if err := e.SetColor(s.gridColor(e.ID())); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scene) gridCoord(i int) (x, y, z int) {
	return i % s.side, (i / s.side) % s.side, i / (s.side * s.side)
}

func (s *Scene) gridPosition(i int) mgl32.Vec3 {
	x, y, z := s.gridCoord(i)
	half := float32(s.side-1) / 2
	return mgl32.Vec3{
		(float32(x) - half) * s.spacing,
		(float32(y) - half) * s.spacing,
		(float32(z) - half) * s.spacing,
	}
}

func (s *Scene) gridColor(i int) mgl32.Vec3 {
	x, y, z := s.gridCoord(i)
	d := float32(max(s.side-1, 1))
	return mgl32.Vec3{0.2 + 0.8*float32(x)/d, 0.2 + 0.8*float32(y)/d, 0.2 + 0.8*float32(z)/d}
}

// Extent returns the half size of the grid
func (s *Scene) Extent() float32 {
	return float32(s.side) * s.spacing / 2
}

// Animate bobs and spins every rendered instance of a dynamic scene
func (s *Scene) Animate(t float64) {
	if s.phase == nil {
		return
	}
	spin := mgl32.QuatRotate(float32(t), mgl32.Vec3{0, 1, 0})
	for _, e := range s.Mesh.Instances() {
		if !e.Visible() {
			continue
		}
		base := s.gridPosition(e.ID())
		base[1] += s.spacing * 0.25 * float32(math.Sin(t*2+float64(s.phase[e.ID()])))
		e.Position = base
		e.Rotation = spin
		e.UpdateMatrix()
	}
}
