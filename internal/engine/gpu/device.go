// Package gpu is the boundary between compiled meshes and the graphics API.
// Meshes only ever see the Device interface; the OpenGL implementation and an
// in-memory recorder both satisfy it.
package gpu

import (
	"errors"
	"fmt"
)

// Handle is an opaque graphics object name (vertex array or buffer).
type Handle uint32

// Attrib is a vertex attribute location.
type Attrib uint32

// Attribute locations shared by batch uploads and the shader program.
const (
	AttribPosition Attrib = 0
	AttribNormal   Attrib = 1
	AttribTexCoord Attrib = 2
)

// String returns the shader input name bound to the attribute.
func (a Attrib) String() string {
	switch a {
	case AttribPosition:
		return "position"
	case AttribNormal:
		return "normal"
	case AttribTexCoord:
		return "texCoord"
	default:
		return fmt.Sprintf("attrib%d", uint32(a))
	}
}

// Device errors.
var (
	ErrUpload        = errors.New("vertex buffer upload failed")
	ErrInvalidLayout = errors.New("vertex data does not match layout")
)

// Drawer issues draw calls for uploaded vertex arrays.
type Drawer interface {
	// DrawTriangles draws vertexCount vertices (3 per triangle) from vao.
	DrawTriangles(vao Handle, vertexCount int)
}

// Device creates, fills, draws and releases vertex arrays.
type Device interface {
	Drawer

	// CreateVertexArray allocates an empty vertex array object.
	CreateVertexArray() (Handle, error)

	// UploadVertexBuffer copies tightly packed float data into a new buffer
	// attached to vao at attrib. len(data) must equal vertexCount*components.
	UploadVertexBuffer(vao Handle, attrib Attrib, data []float32, vertexCount, components int) (Handle, error)

	DeleteBuffer(h Handle)
	DeleteVertexArray(h Handle)
}

func checkLayout(data []float32, vertexCount, components int) error {
	if vertexCount <= 0 || components <= 0 {
		return fmt.Errorf("%w: %d vertices of %d components", ErrInvalidLayout, vertexCount, components)
	}
	if len(data) != vertexCount*components {
		return fmt.Errorf("%w: got %d floats, want %d", ErrInvalidLayout, len(data), vertexCount*components)
	}
	return nil
}
