package scene

import (
	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Mesh is a compiled scene graph. It owns its node tree, its batches and the
// GPU handles inside them. Mutable only while Compile runs.
type Mesh struct {
	Root      *Node
	Batches   []Batch
	Materials []mesh.Material

	released bool
}

// Destroy releases every GPU handle held by the mesh. Later calls are no-ops.
func (m *Mesh) Destroy(dev gpu.Device) {
	if m.released {
		return
	}
	for i := range m.Batches {
		m.Batches[i].release(dev)
	}
	m.released = true
}

// Material returns the material a batch was built for.
func (m *Mesh) Material(b *Batch) (mesh.Material, bool) {
	if b.Material < 0 || b.Material >= len(m.Materials) {
		return mesh.Material{}, false
	}
	return m.Materials[b.Material], true
}

// Walk visits every node in pre-order with its depth below the root.
func (m *Mesh) Walk(fn func(n *Node, depth int)) {
	walk(m.Root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	fn(n, depth)
	for _, child := range n.Children {
		walk(child, depth+1, fn)
	}
}

// Stats summarises a compiled mesh.
type Stats struct {
	Objects       int
	Groups        int
	Batches       int
	Faces         int
	Vertices      int
	WithNormals   int
	WithTexCoords int
}

// Stats counts nodes, batches and faces.
func (m *Mesh) Stats() Stats {
	var s Stats
	m.Walk(func(n *Node, _ int) {
		switch n.Kind {
		case NodeObject:
			s.Objects++
		case NodeGroup:
			s.Groups++
		}
	})
	for i := range m.Batches {
		b := &m.Batches[i]
		s.Batches++
		s.Faces += b.FaceCount
		s.Vertices += b.VertexCount()
		if b.HasNormals {
			s.WithNormals++
		}
		if b.HasTexCoords {
			s.WithTexCoords++
		}
	}
	return s
}
