// Package texture inspects the diffuse maps materials refer to. Maps are
// reported, never uploaded: meshes are drawn untextured.
package texture

import (
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Info describes a decoded image header.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// MapRef is a material's diffuse map resolved against the mesh file.
type MapRef struct {
	Material string
	Path     string
	Info     Info
	Err      error
}

// Inspect reads the image header at path. TGA is recognised by extension,
// every other format by content.
func Inspect(path string) (Info, error) {
	info := Info{Path: path}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		data, err := os.ReadFile(path)
		if err != nil {
			return info, err
		}
		cfg, err := DecodeTGAConfig(data)
		if err != nil {
			return info, fmt.Errorf("%s: %w", path, err)
		}
		info.Format, info.Width, info.Height = "tga", cfg.Width, cfg.Height
		return info, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return info, fmt.Errorf("%s: %w", path, err)
	}
	info.Format, info.Width, info.Height = format, cfg.Width, cfg.Height
	return info, nil
}

// ResolvePath returns where a map named in a material file lives: absolute
// names are kept, relative ones are taken from the mesh file's directory.
// Backslash separators from Windows exporters are accepted.
func ResolvePath(meshPath, mapName string) string {
	name := filepath.FromSlash(strings.ReplaceAll(mapName, `\`, "/"))
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(meshPath), name)
}

// InspectMaps inspects the diffuse map of every material that has one.
// Failures are recorded per map; the slice follows material order. Data URIs
// are reported as embedded without decoding.
func InspectMaps(meshPath string, materials []mesh.Material) []MapRef {
	var refs []MapRef
	for _, m := range materials {
		if m.DiffuseMap == "" {
			continue
		}
		if strings.HasPrefix(m.DiffuseMap, "data:") {
			refs = append(refs, MapRef{Material: m.Name, Info: Info{Format: "embedded"}})
			continue
		}
		ref := MapRef{Material: m.Name, Path: ResolvePath(meshPath, m.DiffuseMap)}
		ref.Info, ref.Err = Inspect(ref.Path)
		refs = append(refs, ref)
	}
	return refs
}
