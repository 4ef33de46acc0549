// Package mesh holds the parsed, format-independent description of a 3D mesh:
// objects made of groups of triangular faces that index into shared
// position, normal and texture coordinate pools.
package mesh

// Sentinels used by Face.
const (
	NoIndex    = -1 // absent normal or texture coordinate index
	NoMaterial = -1 // face has no material assigned
)

// Face is one triangle. Indices are zero-based into the pools of Data.
type Face struct {
	Positions [3]int
	Normals   [3]int
	TexCoords [3]int
	Material  int
}

// HasNormals reports whether all three normal indices are present.
func (f Face) HasNormals() bool {
	return f.Normals[0] != NoIndex && f.Normals[1] != NoIndex && f.Normals[2] != NoIndex
}

// HasTexCoords reports whether all three texture coordinate indices are present.
func (f Face) HasTexCoords() bool {
	return f.TexCoords[0] != NoIndex && f.TexCoords[1] != NoIndex && f.TexCoords[2] != NoIndex
}

// Group is an ordered run of faces inside an object.
type Group struct {
	Name  string
	Faces []Face
}

// Object is a named collection of groups.
type Object struct {
	Name   string
	Groups []Group
}

// Material describes surface properties referenced by Face.Material.
type Material struct {
	Name       string
	Ambient    [3]float32
	Diffuse    [3]float32
	Specular   [3]float32
	Shininess  float32
	Opacity    float32
	DiffuseMap string
}

// DefaultMaterial returns a material with neutral colours and full opacity.
func DefaultMaterial(name string) Material {
	return Material{
		Name:     name,
		Diffuse:  [3]float32{0.8, 0.8, 0.8},
		Specular: [3]float32{0, 0, 0},
		Opacity:  1,
	}
}

// Data is a complete parsed mesh.
type Data struct {
	Objects   []Object
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Materials []Material

	// Libraries lists material libraries referenced by the source file.
	Libraries []string
}

// NumObjects returns the number of objects.
func (d *Data) NumObjects() int {
	return len(d.Objects)
}

// Object returns the object at index i.
func (d *Data) Object(i int) *Object {
	return &d.Objects[i]
}

// PositionAt resolves a position pool index.
func (d *Data) PositionAt(i int) ([3]float32, bool) {
	if i < 0 || i >= len(d.Positions) {
		return [3]float32{}, false
	}
	return d.Positions[i], true
}

// NormalAt resolves a normal pool index.
func (d *Data) NormalAt(i int) ([3]float32, bool) {
	if i < 0 || i >= len(d.Normals) {
		return [3]float32{}, false
	}
	return d.Normals[i], true
}

// TexCoordAt resolves a texture coordinate pool index.
func (d *Data) TexCoordAt(i int) ([2]float32, bool) {
	if i < 0 || i >= len(d.TexCoords) {
		return [2]float32{}, false
	}
	return d.TexCoords[i], true
}

// NumMaterials returns the number of materials.
func (d *Data) NumMaterials() int {
	return len(d.Materials)
}

// MaterialAt returns the material at index i.
func (d *Data) MaterialAt(i int) (Material, bool) {
	if i < 0 || i >= len(d.Materials) {
		return Material{}, false
	}
	return d.Materials[i], true
}

// FaceCount returns the total number of faces across all objects and groups.
func (d *Data) FaceCount() int {
	n := 0
	for i := range d.Objects {
		for j := range d.Objects[i].Groups {
			n += len(d.Objects[i].Groups[j].Faces)
		}
	}
	return n
}

// MaterialIndex returns the index of the material with the given name, or
// NoMaterial when none matches.
func (d *Data) MaterialIndex(name string) int {
	for i := range d.Materials {
		if d.Materials[i].Name == name {
			return i
		}
	}
	return NoMaterial
}
