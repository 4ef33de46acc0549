package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// OBJ format errors.
var (
	ErrMalformedOBJ  = errors.New("malformed OBJ data")
	ErrOBJIndexRange = errors.New("OBJ index out of range")
)

// Names given to faces that appear before any "o" or "g" statement.
const (
	DefaultObjectName = "default"
	DefaultGroupName  = "default"
)

// objParser holds the state of one OBJ parse.
type objParser struct {
	data *mesh.Data

	object   int // index into data.Objects, -1 before the first
	group    int // index into the current object's groups, -1 before the first
	material int // current usemtl index
	line     int
}

// ParseOBJ parses Wavefront OBJ text. Polygons with more than three corners
// are split into a triangle fan. Materials named by usemtl become entries of
// Data.Materials with default parameters; LoadOBJ fills them from mtllib
// files.
func ParseOBJ(data []byte) (*mesh.Data, error) {
	p := &objParser{
		data:     &mesh.Data{},
		object:   -1,
		group:    -1,
		material: mesh.NoMaterial,
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("line %d: %w", p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return p.data, nil
}

func (p *objParser) parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]

	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.data.Positions = append(p.data.Positions, [3]float32{v[0], v[1], v[2]})
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.data.Normals = append(p.data.Normals, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return fmt.Errorf("texcoord: %w", err)
		}
		p.data.TexCoords = append(p.data.TexCoords, [2]float32{v[0], v[1]})
	case "f":
		return p.parseFace(args)
	case "o":
		p.beginObject(strings.Join(args, " "))
	case "g":
		p.beginGroup(strings.Join(args, " "))
	case "usemtl":
		name := strings.Join(args, " ")
		idx := p.data.MaterialIndex(name)
		if idx == mesh.NoMaterial {
			p.data.Materials = append(p.data.Materials, mesh.DefaultMaterial(name))
			idx = len(p.data.Materials) - 1
		}
		p.material = idx
	case "mtllib":
		p.data.Libraries = append(p.data.Libraries, args...)
	default:
		// s, l, p, curve and surface statements are not used.
	}
	return nil
}

func (p *objParser) beginObject(name string) {
	if name == "" {
		name = DefaultObjectName
	}
	p.data.Objects = append(p.data.Objects, mesh.Object{Name: name})
	p.object = len(p.data.Objects) - 1
	p.group = -1
}

func (p *objParser) beginGroup(name string) {
	if name == "" {
		name = DefaultGroupName
	}
	if p.object < 0 {
		p.beginObject(DefaultObjectName)
	}
	obj := &p.data.Objects[p.object]
	obj.Groups = append(obj.Groups, mesh.Group{Name: name})
	p.group = len(obj.Groups) - 1
}

func (p *objParser) currentGroup() *mesh.Group {
	if p.object < 0 {
		p.beginObject(DefaultObjectName)
	}
	if p.group < 0 {
		p.beginGroup(DefaultGroupName)
	}
	return &p.data.Objects[p.object].Groups[p.group]
}

// parseFace reads "f" corners of the forms v, v/vt, v//vn and v/vt/vn.
func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face with %d corners", ErrMalformedOBJ, len(args))
	}

	corners := make([][3]int, len(args))
	for i, arg := range args {
		c, err := p.parseCorner(arg)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	g := p.currentGroup()
	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		g.Faces = append(g.Faces, mesh.Face{
			Positions: [3]int{a[0], b[0], c[0]},
			TexCoords: [3]int{a[1], b[1], c[1]},
			Normals:   [3]int{a[2], b[2], c[2]},
			Material:  p.material,
		})
	}
	return nil
}

// parseCorner returns zero-based position, texcoord and normal indices.
// Missing texcoord or normal references are mesh.NoIndex.
func (p *objParser) parseCorner(s string) ([3]int, error) {
	c := [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}
	parts := strings.Split(s, "/")
	if len(parts) > 3 || parts[0] == "" {
		return c, fmt.Errorf("%w: face corner %q", ErrMalformedOBJ, s)
	}

	counts := [3]int{len(p.data.Positions), len(p.data.TexCoords), len(p.data.Normals)}
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx, err := resolveIndex(part, counts[i])
		if err != nil {
			return c, fmt.Errorf("face corner %q: %w", s, err)
		}
		c[i] = idx
	}
	return c, nil
}

// resolveIndex converts a one-based or negative relative OBJ index into a
// zero-based one. Forward references beyond the current count are kept; the
// compiler rejects them if they never resolve.
func resolveIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformedOBJ, s)
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0 && count+n >= 0:
		return count + n, nil
	default:
		return 0, fmt.Errorf("%w: %d with %d defined", ErrOBJIndexRange, n, count)
	}
}

func parseFloats(args []string, want int) ([]float32, error) {
	if len(args) < want {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrMalformedOBJ, want, len(args))
	}
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedOBJ, a)
		}
		out[i] = float32(f)
	}
	return out, nil
}

// LoadOBJ parses an OBJ file and the material libraries it names. Libraries
// are looked up next to the OBJ file; missing ones are skipped and listed in
// the returned slice so callers can report them.
func LoadOBJ(path string) (*mesh.Data, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	data, err := ParseOBJ(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	var missing []string
	dir := filepath.Dir(path)
	for _, lib := range data.Libraries {
		libPath := filepath.Join(dir, lib)
		defs, err := ParseMTLFile(libPath)
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, lib)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		ApplyMaterials(data, defs)
	}

	return data, missing, nil
}
