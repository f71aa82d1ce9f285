package app

import (
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"instmesh/internal/config"
	"instmesh/internal/graphics/renderables/instances"
	renderer "instmesh/internal/graphics/renderer"
	"instmesh/internal/profiling"
)

// orbitSpeed is in degrees per second
const orbitSpeed = 20

type App struct {
	window    *glfw.Window
	renderer  *renderer.Renderer
	instances *instances.Instances
	scene     *Scene

	paused     bool
	fpsLimiter *FPSLimiter
	start      time.Time
	lastTime   time.Time

	frames       int
	shown        int
	hidden       int
	lastFPSCheck time.Time
}

func NewApp(window *glfw.Window, r *renderer.Renderer, inst *instances.Instances, scene *Scene) *App {
	cam := r.GetCamera()
	cam.Distance = scene.Extent() * 2.5
	cam.FarPlane = (cam.Distance + scene.Extent()*2) * 4

	now := time.Now()
	a := &App{
		window:       window,
		renderer:     r,
		instances:    inst,
		scene:        scene,
		fpsLimiter:   NewFPSLimiter(),
		start:        now,
		lastTime:     now,
		lastFPSCheck: now,
	}
	a.setupInputHandlers()
	return a
}

func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	dt := startTick.Sub(a.lastTime).Seconds()
	a.lastTime = startTick

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	if !a.paused {
		a.renderer.GetCamera().Orbit(float32(dt*orbitSpeed), 0)
		func() {
			defer profiling.Track("scene.Animate")()
			a.scene.Animate(time.Since(a.start).Seconds())
		}()
	}

	a.renderer.Render(dt)
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	processing := time.Since(startTick)
	if processing > config.GetSlowFrameThreshold() {
		log.Printf("Slow frame: %v (culling %v). Top tasks: %s", processing, profiling.SumWithPrefix("instancing."), profiling.TopN(5))
	}
	a.reportFPS()

	a.fpsLimiter.Wait(a.paused)
}

func (a *App) reportFPS() {
	a.frames++
	a.shown += profiling.Counter("instancing.shown")
	a.hidden += profiling.Counter("instancing.hidden")
	if time.Since(a.lastFPSCheck) < time.Second {
		return
	}
	mesh := a.scene.Mesh
	log.Printf("FPS: %d, drawn %d/%d, shown %d, hidden %d", a.frames, mesh.Count(), mesh.Capacity(), a.shown, a.hidden)
	a.frames, a.shown, a.hidden = 0, 0, 0
	a.lastFPSCheck = time.Now()
}

func (a *App) setupInputHandlers() {
	a.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		cam := a.renderer.GetCamera()
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeySpace:
			a.paused = !a.paused
		case glfw.KeyC:
			log.Printf("Per-object culling: %v", a.instances.ToggleCulling())
		case glfw.KeyLeft:
			cam.Orbit(-5, 0)
		case glfw.KeyRight:
			cam.Orbit(5, 0)
		case glfw.KeyUp:
			cam.Orbit(0, 5)
		case glfw.KeyDown:
			cam.Orbit(0, -5)
		case glfw.KeyEqual:
			cam.Distance = max(cam.Distance*0.9, 1)
		case glfw.KeyMinus:
			cam.Distance *= 1.1
		case glfw.KeyR:
			// toggles between the full set and half of it, bypassing culling
			mesh := a.scene.Mesh
			n := mesh.Capacity()
			if mesh.InternalCount() == n {
				n /= 2
			}
			mesh.SetActiveCount(n)
			log.Printf("Active instances: %d", n)
		}
	})

	a.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.renderer.UpdateViewport(width, height)
	})
}
