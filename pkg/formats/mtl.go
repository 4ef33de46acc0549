package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// ErrMalformedMTL is returned for MTL statements that cannot be parsed.
var ErrMalformedMTL = errors.New("malformed MTL data")

// ParseMTL parses a Wavefront material library. Statements before the first
// newmtl and unknown statements are ignored.
func ParseMTL(data []byte) ([]mesh.Material, error) {
	var (
		out  []mesh.Material
		cur  *mesh.Material
		line int
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		args := fields[1:]

		if fields[0] == "newmtl" {
			out = append(out, mesh.DefaultMaterial(strings.Join(args, " ")))
			cur = &out[len(out)-1]
			continue
		}
		if cur == nil {
			continue
		}

		var err error
		switch fields[0] {
		case "Ka":
			cur.Ambient, err = parseColor(args)
		case "Kd":
			cur.Diffuse, err = parseColor(args)
		case "Ks":
			cur.Specular, err = parseColor(args)
		case "Ns":
			cur.Shininess, err = parseScalar(args)
		case "d":
			cur.Opacity, err = parseScalar(args)
		case "Tr":
			var tr float32
			tr, err = parseScalar(args)
			cur.Opacity = 1 - tr
		case "map_Kd":
			if len(args) > 0 {
				// Options precede the file name.
				cur.DiffuseMap = args[len(args)-1]
			}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, fields[0], err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading MTL: %w", err)
	}

	return out, nil
}

// ParseMTLFile parses an MTL file from disk.
func ParseMTLFile(path string) ([]mesh.Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MTL file: %w", err)
	}
	mats, err := ParseMTL(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mats, nil
}

// ApplyMaterials replaces the placeholder materials in d with the
// definitions of the same name. Definitions nobody uses are dropped.
func ApplyMaterials(d *mesh.Data, defs []mesh.Material) {
	for _, def := range defs {
		if idx := d.MaterialIndex(def.Name); idx != mesh.NoMaterial {
			d.Materials[idx] = def
		}
	}
}

func parseColor(args []string) ([3]float32, error) {
	if len(args) == 0 {
		return [3]float32{}, fmt.Errorf("%w: missing color", ErrMalformedMTL)
	}
	// "Kd spectral ..." and "Kd xyz ..." are not supported.
	if _, err := strconv.ParseFloat(args[0], 32); err != nil {
		return [3]float32{}, fmt.Errorf("%w: %q", ErrMalformedMTL, args[0])
	}

	if len(args) == 1 {
		// A single value sets all channels.
		args = []string{args[0], args[0], args[0]}
	}
	if len(args) < 3 {
		return [3]float32{}, fmt.Errorf("%w: want 3 channels, got %d", ErrMalformedMTL, len(args))
	}

	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return [3]float32{}, fmt.Errorf("%w: %q", ErrMalformedMTL, args[i])
		}
		c[i] = float32(f)
	}
	return c, nil
}

func parseScalar(args []string) (float32, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing value", ErrMalformedMTL)
	}
	f, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedMTL, args[0])
	}
	return float32(f), nil
}
