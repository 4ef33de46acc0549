package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLDevice implements Device on top of OpenGL 4.1 core.
// IMPORTANT: gl.Init must have run on the thread owning the current context.
type GLDevice struct{}

// NewGLDevice returns a device bound to the current OpenGL context.
func NewGLDevice() *GLDevice {
	return &GLDevice{}
}

// CreateVertexArray allocates a vertex array object.
func (d *GLDevice) CreateVertexArray() (Handle, error) {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	if vao == 0 {
		return 0, fmt.Errorf("%w: glGenVertexArrays returned 0", ErrUpload)
	}
	return Handle(vao), nil
}

// UploadVertexBuffer uploads data as a static buffer and wires it to attrib.
func (d *GLDevice) UploadVertexBuffer(vao Handle, attrib Attrib, data []float32, vertexCount, components int) (Handle, error) {
	if err := checkLayout(data, vertexCount, components); err != nil {
		return 0, err
	}

	// Errors left by earlier, unrelated GL calls must not fail this upload.
	drainErrors(gl.GetError)

	gl.BindVertexArray(uint32(vao))
	defer gl.BindVertexArray(0)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, fmt.Errorf("%w: glGenBuffers returned 0", ErrUpload)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(uint32(attrib), int32(components), gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(uint32(attrib))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if codes := drainErrors(gl.GetError); len(codes) > 0 {
		gl.DeleteBuffers(1, &vbo)
		return 0, fmt.Errorf("%w: %s buffer, gl error 0x%04x", ErrUpload, attrib, codes[0])
	}
	return Handle(vbo), nil
}

// maxPendingErrors bounds drainErrors; a lost context keeps reporting.
const maxPendingErrors = 16

// drainErrors reads error flags until get reports none and returns them in
// the order they were read.
func drainErrors(get func() uint32) []uint32 {
	var codes []uint32
	for i := 0; i < maxPendingErrors; i++ {
		code := get()
		if code == gl.NO_ERROR {
			break
		}
		codes = append(codes, code)
	}
	return codes
}

// DrawTriangles binds vao and draws it as a triangle list.
func (d *GLDevice) DrawTriangles(vao Handle, vertexCount int) {
	gl.BindVertexArray(uint32(vao))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(vertexCount))
}

// DeleteBuffer releases a buffer.
func (d *GLDevice) DeleteBuffer(h Handle) {
	if h == 0 {
		return
	}
	name := uint32(h)
	gl.DeleteBuffers(1, &name)
}

// DeleteVertexArray releases a vertex array object.
func (d *GLDevice) DeleteVertexArray(h Handle) {
	if h == 0 {
		return
	}
	name := uint32(h)
	gl.DeleteVertexArrays(1, &name)
}
