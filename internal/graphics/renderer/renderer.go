package renderer

import (
	"instmesh/internal/graphics"
	"instmesh/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Renderer orchestrates rendering via renderable features
type Renderer struct {
	renderables []Renderable
	camera      *graphics.Camera
}

// NewRenderer configures GL state, creates the camera and initializes every renderable
func NewRenderer(width, height int, rs ...Renderable) (*Renderer, error) {
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	r := &Renderer{
		renderables: rs,
		camera:      graphics.NewCamera(width, height),
	}

	for i, rb := range rs {
		if err := rb.Init(); err != nil {
			// release what was already initialized
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, err
		}
		rb.SetViewport(width, height)
	}
	return r, nil
}

// Render clears the frame and draws every renderable from the camera
func (r *Renderer) Render(dt float64) {
	defer profiling.Track("renderer.Render")()

	gl.ClearColor(0.53, 0.81, 0.92, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := r.camera.GetViewMatrix()
	projection := r.camera.GetProjectionMatrix()
	ctx := RenderContext{
		Camera:   r.camera,
		DT:       dt,
		View:     view,
		Proj:     projection,
		ViewProj: projection.Mul4(view),
	}

	for _, renderable := range r.renderables {
		renderable.Render(ctx)
	}
}

// Dispose cleans up all renderables in reverse order
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
}

// GetCamera returns the camera instance
func (r *Renderer) GetCamera() *graphics.Camera {
	return r.camera
}

// UpdateViewport resizes the GL viewport and informs the camera and renderables
func (r *Renderer) UpdateViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
	for _, rb := range r.renderables {
		rb.SetViewport(width, height)
	}
}
