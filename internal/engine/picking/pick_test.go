package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/internal/engine/scene"
	"github.com/Faultbox/meshgraph/pkg/mesh"
)

type meshList struct {
	names  []string
	meshes []*scene.Mesh
}

func (l *meshList) Each(fn func(name string, m *scene.Mesh)) {
	for i, m := range l.meshes {
		fn(l.names[i], m)
	}
}

// quadAt compiles one object with two single-triangle batches: material 0
// at depth z and no material at depth z-1.
func quadAt(t *testing.T, z float32) *scene.Mesh {
	t.Helper()
	d := &mesh.Data{
		Positions: [][3]float32{
			{-1, -1, z}, {1, -1, z}, {0, 1, z},
			{-1, -1, z - 1}, {1, -1, z - 1}, {0, 1, z - 1},
		},
		Materials: []mesh.Material{mesh.DefaultMaterial("front")},
		Objects: []mesh.Object{{
			Name: "quad",
			Groups: []mesh.Group{{
				Name: "g",
				Faces: []mesh.Face{
					{Positions: [3]int{0, 1, 2}, Normals: noIndex, TexCoords: noIndex, Material: 0},
					{Positions: [3]int{3, 4, 5}, Normals: noIndex, TexCoords: noIndex, Material: mesh.NoMaterial},
				},
			}},
		}},
	}
	m, err := scene.Compile(d, gpu.NewRecorder())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return m
}

var noIndex = [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}

func TestPickNearestLeaf(t *testing.T) {
	near := quadAt(t, 1)
	far := quadAt(t, -5)
	list := &meshList{names: []string{"far", "near"}, meshes: []*scene.Mesh{far, near}}

	r := Ray{Origin: mgl32.Vec3{0, 0, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	hit, ok := Pick(r, list)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Mesh != "near" {
		t.Errorf("Mesh = %q, want near", hit.Mesh)
	}
	if hit.Node.Name != "front" {
		t.Errorf("Node = %q, want front", hit.Node.Name)
	}
	if hit.Batch != hit.Node.Batch {
		t.Errorf("Batch = %d, node batch %d", hit.Batch, hit.Node.Batch)
	}
	if !mgl32.FloatEqualThreshold(hit.Distance, 9, 1e-5) {
		t.Errorf("Distance = %v, want 9", hit.Distance)
	}
}

func TestPickMiss(t *testing.T) {
	list := &meshList{names: []string{"a"}, meshes: []*scene.Mesh{quadAt(t, 0)}}

	r := Ray{Origin: mgl32.Vec3{5, 5, 10}, Direction: mgl32.Vec3{0, 0, -1}}
	if _, ok := Pick(r, list); ok {
		t.Error("expected no hit")
	}
	if _, ok := Pick(r, &meshList{}); ok {
		t.Error("expected no hit with no meshes")
	}
}
