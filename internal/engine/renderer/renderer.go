// Package renderer draws compiled meshes with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/internal/engine/scene"
	"github.com/Faultbox/meshgraph/internal/engine/shader"
	"github.com/Faultbox/meshgraph/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Wireframe  bool
	ClearColor [4]float32
	Color      [3]float32
}

// Meshes is anything that can list compiled meshes in draw order.
// *assets.Registry implements it.
type Meshes interface {
	Each(fn func(name string, m *scene.Mesh))
}

// Renderer owns the OpenGL state used to draw meshes: the shared program,
// the device meshes are uploaded to and the polygon mode.
type Renderer struct {
	config  Config
	device  *gpu.GLDevice
	program *shader.Program
	log     *zap.Logger

	uMVP   int32
	uColor int32

	draw func(name string, m *scene.Mesh)
}

// New creates a renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.CompileProgram(vertexShader, fragmentShader, "fragOut",
		shader.Binding{Location: uint32(gpu.AttribPosition), Name: "position"},
		shader.Binding{Location: uint32(gpu.AttribNormal), Name: "normal"},
		shader.Binding{Location: uint32(gpu.AttribTexCoord), Name: "texCoord"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.uMVP = r.program.MustUniform("uMVP")
	r.uColor = r.program.Uniform("uColor")
	r.log.Debug("shader program created", zap.Uint32("program", r.program.ID))

	r.device = gpu.NewGLDevice()
	r.draw = func(_ string, m *scene.Mesh) {
		scene.Render(m, r.device)
	}
	r.SetWireframe(cfg.Wireframe)

	return r, nil
}

// Device returns the device meshes must be compiled against.
func (r *Renderer) Device() *gpu.GLDevice {
	return r.device
}

// Close releases the program.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetWireframe switches between line and fill polygon modes.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports the current polygon mode.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every mesh with the given view-projection matrix.
func (r *Renderer) Draw(meshes Meshes, viewProjection mgl32.Mat4) {
	r.program.Use()
	gl.UniformMatrix4fv(r.uMVP, 1, false, &viewProjection[0])
	if r.uColor >= 0 {
		c := r.config.Color
		gl.Uniform3f(r.uColor, c[0], c[1], c[2])
	}

	meshes.Each(r.draw)

	gl.BindVertexArray(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.UseProgram(0)
}
