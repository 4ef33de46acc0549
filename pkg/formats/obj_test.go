package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

const cubeCorner = `# corner of a cube
mtllib corner.mtl
o corner
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vn 0 0 1
g front
usemtl red
f 1/1/1 2/2/1 3/3/1
f 1//1 3//1 4//1
g back
usemtl blue
f 4 3 2 1
usemtl red
f -4/-3 -3/-2 -2/-1
`

func TestParseOBJ(t *testing.T) {
	data, err := ParseOBJ([]byte(cubeCorner))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if len(data.Positions) != 4 || len(data.TexCoords) != 3 || len(data.Normals) != 1 {
		t.Errorf("pools = %d/%d/%d, want 4/3/1", len(data.Positions), len(data.TexCoords), len(data.Normals))
	}
	if len(data.Libraries) != 1 || data.Libraries[0] != "corner.mtl" {
		t.Errorf("libraries = %v", data.Libraries)
	}
	if data.NumObjects() != 1 || data.Objects[0].Name != "corner" {
		t.Fatalf("objects = %+v", data.Objects)
	}

	groups := data.Objects[0].Groups
	if len(groups) != 2 || groups[0].Name != "front" || groups[1].Name != "back" {
		t.Fatalf("groups = %+v", groups)
	}

	front := groups[0].Faces
	if len(front) != 2 {
		t.Fatalf("front has %d faces, want 2", len(front))
	}
	if want := [3]int{0, 1, 2}; front[0].Positions != want || front[0].TexCoords != want {
		t.Errorf("first face = %+v", front[0])
	}
	if !front[0].HasNormals() || !front[0].HasTexCoords() {
		t.Error("first face should carry normals and texcoords")
	}
	if front[1].HasTexCoords() || !front[1].HasNormals() {
		t.Errorf("second face = %+v, want normals without texcoords", front[1])
	}

	// The quad is fanned into two triangles and the relative face follows.
	back := groups[1].Faces
	if len(back) != 3 {
		t.Fatalf("back has %d faces, want 3", len(back))
	}
	if back[0].Positions != [3]int{3, 2, 1} || back[1].Positions != [3]int{3, 1, 0} {
		t.Errorf("fan = %v %v", back[0].Positions, back[1].Positions)
	}
	if back[2].Positions != [3]int{0, 1, 2} || back[2].TexCoords != [3]int{0, 1, 2} {
		t.Errorf("relative face = %+v", back[2])
	}

	if data.NumMaterials() != 2 {
		t.Fatalf("got %d materials, want 2", data.NumMaterials())
	}
	red, blue := data.MaterialIndex("red"), data.MaterialIndex("blue")
	if front[0].Material != red || back[0].Material != blue || back[2].Material != red {
		t.Errorf("materials = %d %d %d", front[0].Material, back[0].Material, back[2].Material)
	}
}

func TestParseOBJDefaults(t *testing.T) {
	data, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if data.NumObjects() != 1 {
		t.Fatalf("got %d objects", data.NumObjects())
	}
	obj := data.Objects[0]
	if obj.Name != DefaultObjectName || len(obj.Groups) != 1 || obj.Groups[0].Name != DefaultGroupName {
		t.Errorf("unexpected layout %+v", obj)
	}
	if f := obj.Groups[0].Faces[0]; f.Material != mesh.NoMaterial || f.HasNormals() {
		t.Errorf("face = %+v", f)
	}
}

func TestParseOBJEmpty(t *testing.T) {
	data, err := ParseOBJ([]byte("# nothing here\n\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if data.NumObjects() != 0 {
		t.Errorf("got %d objects", data.NumObjects())
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"short vertex", "v 1 2\n", ErrMalformedOBJ},
		{"bad number", "v 1 x 2\n", ErrMalformedOBJ},
		{"two corners", "v 0 0 0\nf 1 1\n", ErrMalformedOBJ},
		{"bad index", "v 0 0 0\nf 1 a 1\n", ErrMalformedOBJ},
		{"zero index", "v 0 0 0\nf 0 1 1\n", ErrOBJIndexRange},
		{"relative before start", "v 0 0 0\nf -2 1 1\n", ErrOBJIndexRange},
		{"too many slashes", "v 0 0 0\nf 1/1/1/1 1 1\n", ErrMalformedOBJ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadOBJWithLibrary(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "corner.obj")
	if err := os.WriteFile(obj, []byte(cubeCorner), 0o644); err != nil {
		t.Fatal(err)
	}
	mtl := "newmtl red\nKd 1 0 0\nmap_Kd red.png\n"
	if err := os.WriteFile(filepath.Join(dir, "corner.mtl"), []byte(mtl), 0o644); err != nil {
		t.Fatal(err)
	}

	data, missing, err := LoadOBJ(obj)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("missing = %v", missing)
	}

	red, _ := data.MaterialAt(data.MaterialIndex("red"))
	if red.Diffuse != [3]float32{1, 0, 0} || red.DiffuseMap != "red.png" {
		t.Errorf("red = %+v", red)
	}
	// blue is used but not defined, so it keeps the defaults.
	blue, _ := data.MaterialAt(data.MaterialIndex("blue"))
	if blue != mesh.DefaultMaterial("blue") {
		t.Errorf("blue = %+v", blue)
	}
}

func TestLoadOBJMissingLibrary(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "corner.obj")
	if err := os.WriteFile(obj, []byte(cubeCorner), 0o644); err != nil {
		t.Fatal(err)
	}

	data, missing, err := LoadOBJ(obj)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(missing) != 1 || missing[0] != "corner.mtl" {
		t.Errorf("missing = %v", missing)
	}
	if data.FaceCount() != 5 {
		t.Errorf("got %d faces, want 5", data.FaceCount())
	}
}
