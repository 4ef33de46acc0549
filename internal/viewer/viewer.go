// Package viewer runs the interactive mesh viewer: window, input, camera,
// mesh registry and the per-frame draw loop.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshgraph/internal/assets"
	"github.com/Faultbox/meshgraph/internal/config"
	"github.com/Faultbox/meshgraph/internal/engine/camera"
	"github.com/Faultbox/meshgraph/internal/engine/debug"
	"github.com/Faultbox/meshgraph/internal/engine/input"
	"github.com/Faultbox/meshgraph/internal/engine/picking"
	"github.com/Faultbox/meshgraph/internal/engine/renderer"
	"github.com/Faultbox/meshgraph/internal/engine/window"
	"github.com/Faultbox/meshgraph/internal/logger"
)

// ErrNothingLoaded is returned by New when every configured mesh failed.
var ErrNothingLoaded = errors.New("no mesh could be loaded")

// Viewer is the viewer instance. Everything it owns lives on the thread
// that called New.
type Viewer struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.Camera
	registry *assets.Registry
	watcher  *assets.Watcher
	shots    *debug.Screenshots

	captured bool
	wantShot bool // capture after the next draw
}

// New opens the window, compiles the configured meshes and sets up the
// camera and the optional file watcher.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.Strings("meshes", cfg.Meshes.Paths),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created.
	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Wireframe:  cfg.Render.Wireframe,
		ClearColor: cfg.Render.ClearColor,
		Color:      cfg.Render.Color,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.shots = debug.NewScreenshots(cfg.Render.ScreenshotDir, "meshgraph")
	v.registry = assets.NewRegistry(v.renderer.Device(), nil)

	if err := v.registry.LoadAll(cfg.Meshes.Paths); err != nil {
		if v.registry.Len() == 0 && len(cfg.Meshes.Paths) > 0 {
			v.Close()
			return nil, fmt.Errorf("%w: %w", ErrNothingLoaded, err)
		}
		v.log.Warn("some meshes failed to load", zap.Error(err))
	}

	v.camera = camera.New(
		mgl32.Vec3(cfg.Camera.Eye),
		mgl32.Vec3(cfg.Camera.Focus),
		mgl32.Vec3(cfg.Camera.Up),
	)
	v.updateProjection()
	if cfg.Camera.FrameMeshes {
		v.frameMeshes()
	}

	if cfg.Meshes.Watch {
		if err := v.startWatcher(); err != nil {
			v.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	v.log.Info("viewer initialized", zap.Int("meshes", v.registry.Len()))
	return v, nil
}

func (v *Viewer) startWatcher() error {
	w, err := assets.NewWatcher(v.cfg.Meshes.Debounce)
	if err != nil {
		return err
	}
	for _, p := range v.registry.Paths() {
		if err := w.Add(p); err != nil {
			w.Close()
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}
	v.watcher = w
	return nil
}

// Run runs the frame loop until the window closes or Escape is pressed.
// Keys: Tab wireframe, F frame meshes, R reload, F12 screenshot. Left click
// logs the material group under the cursor.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.moveCamera(dt)
		v.applyReloads()

		v.renderer.Begin()
		v.renderer.Draw(v.registry, v.camera.ViewProjection())
		v.renderer.End()
		if v.wantShot {
			v.screenshot()
			v.wantShot = false
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s - %d fps", v.cfg.Window.Title, frameCount))
			v.log.Debug("fps", zap.Int("count", frameCount), zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := v.window.DrawableSize()
			v.renderer.Resize(w, h)
			v.updateProjection()

		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_TAB:
				v.renderer.SetWireframe(!v.renderer.Wireframe())
			case sdl.SCANCODE_F:
				v.frameMeshes()
			case sdl.SCANCODE_R:
				v.reloadAll()
			case sdl.SCANCODE_F12:
				v.wantShot = true
			}

		case input.EventMouseDown:
			switch e.Button {
			case sdl.BUTTON_RIGHT:
				v.setCaptured(true)
			case sdl.BUTTON_LEFT:
				v.pick(e.MouseX, e.MouseY)
			}

		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_RIGHT {
				v.setCaptured(false)
			}

		case input.EventMouseMove:
			if v.captured {
				s := v.cfg.Camera.MouseSensitivity
				v.camera.RotateSideways(-float32(e.DeltaX) * s)
				v.camera.RotateUpwards(-float32(e.DeltaY) * s)
			}

		case input.EventMouseWheel:
			v.camera.MoveStraight(float32(e.DeltaY) * v.cfg.Camera.MoveSpeed * 0.1)
		}
	}
}

// moveCamera applies held movement and turn keys: WASD moves, QE moves
// vertically along the view, arrow keys turn.
func (v *Viewer) moveCamera(dt float32) {
	move := v.cfg.Camera.MoveSpeed * dt
	turn := v.cfg.Camera.TurnSpeed * dt

	if f := v.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W); f != 0 {
		v.camera.MoveStraight(f * move)
	}
	if r := v.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D); r != 0 {
		v.camera.MoveSideways(r * move)
	}
	if y := v.input.Axis(sdl.SCANCODE_RIGHT, sdl.SCANCODE_LEFT); y != 0 {
		v.camera.RotateSideways(y * turn)
	}
	if p := v.input.Axis(sdl.SCANCODE_DOWN, sdl.SCANCODE_UP); p != 0 {
		v.camera.RotateUpwards(p * turn)
	}
}

func (v *Viewer) setCaptured(on bool) {
	if v.captured == on {
		return
	}
	v.captured = on
	v.window.SetMouseCaptured(on)
}

func (v *Viewer) updateProjection() {
	r := v.cfg.Render
	v.camera.SetPerspective(r.FOV, v.renderer.Aspect(), r.Near, r.Far)
}

// frameMeshes points the camera at the loaded meshes.
func (v *Viewer) frameMeshes() {
	b := v.registry.Bounds()
	if b.Empty() {
		return
	}
	v.camera.Frame(b.Center(), b.Size()/2, v.cfg.Render.FOV)
}

// pick logs the material group under the cursor.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.Size()
	if w == 0 || h == 0 {
		return
	}
	inv := v.camera.ViewProjection().Inv()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)

	hit, ok := picking.Pick(ray, v.registry)
	if !ok {
		v.log.Info("pick: nothing under cursor")
		return
	}
	m, _ := v.registry.Get(hit.Mesh)
	b := &m.Batches[hit.Batch]
	v.log.Info("pick",
		zap.String("mesh", hit.Mesh),
		zap.String("material", hit.Node.Name),
		zap.Int("batch", hit.Batch),
		zap.Int("faces", b.FaceCount),
		zap.Float32("distance", hit.Distance),
	)
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	path, err := v.shots.SavePixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// applyReloads recompiles meshes whose files changed. It never blocks.
func (v *Viewer) applyReloads() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-v.watcher.Changes():
			if !ok {
				v.watcher = nil
				return
			}
			if err := v.registry.ReloadPath(path); err != nil {
				v.log.Warn("hot reload failed", zap.String("path", path), zap.Error(err))
			}
		default:
			return
		}
	}
}

func (v *Viewer) reloadAll() {
	for _, name := range v.registry.Names() {
		if err := v.registry.Reload(name); err != nil {
			v.log.Warn("reload failed", zap.String("mesh", name), zap.Error(err))
		}
	}
}

// Close releases meshes before the GL context goes away.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.registry != nil {
		v.registry.UnloadAll()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
