package formats

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// ErrUnsupportedGLTF is returned for glTF content that cannot become triangles.
var ErrUnsupportedGLTF = errors.New("unsupported glTF content")

// FromGLTF converts a glTF document into mesh data. Each glTF mesh becomes an
// object and each of its primitives a group. Only triangle-list primitives
// are accepted; vertex streams of all primitives share the data's pools, so
// a primitive's position, normal and texcoord indices are identical.
func FromGLTF(doc *gltf.Document) (*mesh.Data, error) {
	data := &mesh.Data{}

	for _, m := range doc.Materials {
		data.Materials = append(data.Materials, gltfMaterial(doc, m))
	}

	for mi, m := range doc.Meshes {
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", mi)
		}
		obj := mesh.Object{Name: name}

		for pi, prim := range m.Primitives {
			group, err := gltfPrimitive(doc, data, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", name, pi, err)
			}
			group.Name = fmt.Sprintf("primitive%d", pi)
			obj.Groups = append(obj.Groups, group)
		}

		data.Objects = append(data.Objects, obj)
	}

	return data, nil
}

// accessor returns accessor idx, or ErrUnsupportedGLTF when the document
// does not have it.
func accessor(doc *gltf.Document, idx uint32, what string) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: %s accessor %d of %d", ErrUnsupportedGLTF, what, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func gltfPrimitive(doc *gltf.Document, data *mesh.Data, prim *gltf.Primitive) (mesh.Group, error) {
	var group mesh.Group

	if prim.Mode != gltf.PrimitiveTriangles {
		return group, fmt.Errorf("%w: primitive mode %d", ErrUnsupportedGLTF, prim.Mode)
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return group, fmt.Errorf("%w: primitive has no positions", ErrUnsupportedGLTF)
	}

	posAcc, err := accessor(doc, posIdx, "POSITION")
	if err != nil {
		return group, err
	}
	positions, err := modeler.ReadPosition(doc, posAcc, nil)
	if err != nil {
		return group, fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		acc, err := accessor(doc, idx, "NORMAL")
		if err != nil {
			return group, err
		}
		normals, err = modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return group, fmt.Errorf("reading normals: %w", err)
		}
		if len(normals) != len(positions) {
			normals = nil
		}
	}

	var texCoords [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		acc, err := accessor(doc, idx, "TEXCOORD_0")
		if err != nil {
			return group, err
		}
		texCoords, err = modeler.ReadTextureCoord(doc, acc, nil)
		if err != nil {
			return group, fmt.Errorf("reading texcoords: %w", err)
		}
		if len(texCoords) != len(positions) {
			texCoords = nil
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices, "indices")
		if err != nil {
			return group, err
		}
		indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return group, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return group, fmt.Errorf("%w: %d indices is not a triangle list", ErrUnsupportedGLTF, len(indices))
	}
	for _, v := range indices {
		if int(v) >= len(positions) {
			return group, fmt.Errorf("%w: index %d past %d vertices", ErrUnsupportedGLTF, v, len(positions))
		}
	}

	material := mesh.NoMaterial
	if prim.Material != nil {
		material = int(*prim.Material)
	}

	base := len(data.Positions)
	normalBase := len(data.Normals)
	texBase := len(data.TexCoords)
	data.Positions = append(data.Positions, positions...)
	data.Normals = append(data.Normals, normals...)
	data.TexCoords = append(data.TexCoords, texCoords...)

	group.Faces = make([]mesh.Face, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		face := mesh.Face{
			Normals:   [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex},
			TexCoords: [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex},
			Material:  material,
		}
		for c := 0; c < 3; c++ {
			v := int(indices[i+c])
			face.Positions[c] = base + v
			if normals != nil {
				face.Normals[c] = normalBase + v
			}
			if texCoords != nil {
				face.TexCoords[c] = texBase + v
			}
		}
		group.Faces = append(group.Faces, face)
	}

	return group, nil
}

func gltfMaterial(doc *gltf.Document, m *gltf.Material) mesh.Material {
	mat := mesh.DefaultMaterial(m.Name)

	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	if pbr.BaseColorFactor != nil {
		c := *pbr.BaseColorFactor
		mat.Diffuse = [3]float32{c[0], c[1], c[2]}
		mat.Opacity = c[3]
	}
	if tex := pbr.BaseColorTexture; tex != nil && int(tex.Index) < len(doc.Textures) {
		if src := doc.Textures[tex.Index].Source; src != nil && int(*src) < len(doc.Images) {
			mat.DiffuseMap = doc.Images[*src].URI
		}
	}
	return mat
}

// LoadGLTF reads a .gltf or .glb file.
func LoadGLTF(path string) (*mesh.Data, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading glTF file: %w", err)
	}
	data, err := FromGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
