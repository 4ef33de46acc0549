package scene

import "github.com/Faultbox/meshgraph/internal/engine/gpu"

// Render draws every batch of m in pre-order: a node's own batch first, then
// its children in stored order. It neither allocates nor writes, so it is
// safe to call every frame and from several readers at once.
func Render(m *Mesh, d gpu.Drawer) {
	renderNode(m, m.Root, d)
}

func renderNode(m *Mesh, n *Node, d gpu.Drawer) {
	if n.Batch != NoBatch {
		b := &m.Batches[n.Batch]
		d.DrawTriangles(b.VAO, b.VertexCount())
	}
	for _, child := range n.Children {
		renderNode(m, child, d)
	}
}
