package scene

import "github.com/Faultbox/meshgraph/pkg/mesh"

// tri returns a face using positions base..base+2 and matching normal and
// texcoord indices.
func tri(base, material int) mesh.Face {
	return mesh.Face{
		Positions: [3]int{base, base + 1, base + 2},
		Normals:   [3]int{base, base + 1, base + 2},
		TexCoords: [3]int{base, base + 1, base + 2},
		Material:  material,
	}
}

// bare returns a face with positions only.
func bare(base, material int) mesh.Face {
	return mesh.Face{
		Positions: [3]int{base, base + 1, base + 2},
		Normals:   [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex},
		TexCoords: [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex},
		Material:  material,
	}
}

// pools returns data with n positions, normals and texcoords whose values
// encode their index.
func pools(n int) *mesh.Data {
	d := &mesh.Data{}
	for i := 0; i < n; i++ {
		f := float32(i)
		d.Positions = append(d.Positions, [3]float32{f, f + 0.5, -f})
		d.Normals = append(d.Normals, [3]float32{0, 1, f})
		d.TexCoords = append(d.TexCoords, [2]float32{f, f / 2})
	}
	return d
}

func withObjects(d *mesh.Data, objects ...mesh.Object) *mesh.Data {
	d.Objects = objects
	return d
}

func object(name string, groups ...mesh.Group) mesh.Object {
	return mesh.Object{Name: name, Groups: groups}
}

func group(name string, faces ...mesh.Face) mesh.Group {
	return mesh.Group{Name: name, Faces: faces}
}
