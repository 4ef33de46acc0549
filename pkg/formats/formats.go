// Package formats reads mesh files into mesh.Data.
//
// Supported formats are Wavefront OBJ with MTL material libraries and
// glTF 2.0 (.gltf and .glb).
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// ErrUnknownFormat is returned by Load for unrecognised file extensions.
var ErrUnknownFormat = errors.New("unknown mesh format")

// Extensions lists the file extensions Load accepts.
var Extensions = []string{".obj", ".gltf", ".glb"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads a mesh file, choosing the parser by extension. The second
// result lists material libraries that were referenced but not found.
func Load(path string) (*mesh.Data, []string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		data, err := LoadGLTF(path)
		return data, nil, err
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}
