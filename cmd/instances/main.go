package main

import (
	"flag"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"

	"instmesh/internal/app"
	"instmesh/internal/config"
	"instmesh/internal/graphics/renderables/instances"
	renderer "instmesh/internal/graphics/renderer"
)

const (
	winWidth  = 900
	winHeight = 600
)

var (
	count    = flag.Int("n", 20000, "number of instances")
	spacing  = flag.Float64("spacing", 2, "grid spacing between instances")
	leafSize = flag.Int("leaf", config.GetMaxLeafSize(), "maximum instances per BVH leaf")
	depth    = flag.Int("depth", config.GetMaxDepth(), "maximum BVH depth")
	strategy = flag.String("strategy", config.GetSplitStrategy(), "BVH split strategy: center, average or sah")
	dynamic  = flag.Bool("dynamic", false, "animate instances and cull them one by one")
	fps      = flag.Int("fps", 0, "frame rate limit, 0 for unlimited")
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	config.SetMaxLeafSize(*leafSize)
	config.SetMaxDepth(*depth)
	config.SetSplitStrategy(*strategy)
	config.SetFPSLimit(*fps)

	if err := glfw.Init(); err != nil {
		panic(err)
	}

	window, err := setupWindow(winWidth, winHeight)
	if err != nil {
		glfw.Terminate()
		panic(err)
	}

	buildStart := time.Now()
	scene, err := app.NewScene(app.SceneOptions{
		Count:    *count,
		Spacing:  float32(*spacing),
		Dynamic:  *dynamic,
		Geometry: instances.CubeGeometry(),
	})
	if err != nil {
		glfw.Terminate()
		panic(err)
	}
	logScene(scene, time.Since(buildStart))

	inst := instances.NewInstances(scene.Mesh, scene.Attrs)
	fbWidth, fbHeight := window.GetFramebufferSize()
	r, err := renderer.NewRenderer(fbWidth, fbHeight, inst)
	if err != nil {
		glfw.Terminate()
		panic(err)
	}

	// an interrupt exits without returning to the loop; GL state dies with the process
	closer.Bind(func() {
		log.Printf("Exiting: %d/%d instances drawn in the last frame", scene.Mesh.Count(), scene.Mesh.Capacity())
	})

	app.NewApp(window, r, inst, scene).Run()

	r.Dispose()
	glfw.Terminate()
	closer.Close()
}

func logScene(s *app.Scene, took time.Duration) {
	mesh := s.Mesh
	tree := mesh.Tree()
	if tree == nil {
		log.Printf("Scene: %d %s instances, built in %v", mesh.Capacity(), mesh.Behaviour(), took)
		return
	}
	st := tree.Stats()
	log.Printf("Scene: %d %s instances, BVH %d nodes, %d leaves (%d empty), depth %d, largest leaf %d, built in %v",
		mesh.Capacity(), mesh.Behaviour(), st.Nodes, st.Leaves, st.EmptyLeaves, st.MaxDepth, st.MaxLeafSize, took)
}
