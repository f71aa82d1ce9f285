package instances

import (
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"instmesh/internal/graphics"
	renderer "instmesh/internal/graphics/renderer"
	"instmesh/internal/instancing"
	"instmesh/internal/profiling"
)

const (
	ShadersDir = "assets/shaders/instances"
)

var (
	VertShader = filepath.Join(ShadersDir, "instances.vert")
	FragShader = filepath.Join(ShadersDir, "instances.frag")
)

// first location after aPos and aNormal
const instanceLocation = 2

// Instances culls an instanced mesh against the camera and draws its active prefix
type Instances struct {
	mesh    *instancing.Mesh
	buffer  *graphics.InstanceBuffer
	shader  *graphics.Shader
	vao     uint32
	vbo     uint32
	culling bool
}

// NewInstances creates the renderable; the mesh must use set as its attribute host
func NewInstances(mesh *instancing.Mesh, set *instancing.AttributeSet) *Instances {
	return &Instances{
		mesh:    mesh,
		buffer:  graphics.NewInstanceBuffer(set),
		culling: mesh.PerObjectFrustumCulled(),
	}
}

func (r *Instances) Init() error {
	var err error
	r.shader, err = graphics.NewShader(VertShader, FragShader)
	if err != nil {
		return err
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(CubeVertices)*4, gl.Ptr(CubeVertices), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)

	r.buffer.Attach(instanceLocation)
	gl.BindVertexArray(0)
	return nil
}

func (r *Instances) Render(ctx renderer.RenderContext) {
	if r.culling != r.mesh.PerObjectFrustumCulled() {
		r.mesh.SetPerObjectFrustumCulled(r.culling)
	}
	func() {
		defer profiling.Track("renderer.cullInstances")()
		r.mesh.UpdateCullingMatrix(ctx.ViewProj)
	}()

	count := r.mesh.Count()
	r.buffer.Upload(count)
	if count == 0 {
		return
	}

	func() {
		defer profiling.Track("renderer.drawInstances")()
		r.shader.Use()
		r.shader.SetMatrix4("viewProj", ctx.ViewProj)
		r.shader.SetVector3("lightDir", mgl32.Vec3{-0.4, -1, -0.3})
		gl.BindVertexArray(r.vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(len(CubeVertices)/vertexStride), int32(count))
		gl.BindVertexArray(0)
	}()
}

func (r *Instances) SetViewport(width, height int) {}

// ToggleCulling switches per-instance frustum culling before the next frame
func (r *Instances) ToggleCulling() bool {
	r.culling = !r.culling
	return r.culling
}

func (r *Instances) Mesh() *instancing.Mesh {
	return r.mesh
}

func (r *Instances) Dispose() {
	r.buffer.Dispose()
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.shader != nil {
		r.shader.Delete()
	}
}
