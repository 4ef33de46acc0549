package picking

import "github.com/Faultbox/meshgraph/internal/engine/scene"

// Meshes lists compiled meshes by name. *assets.Registry implements it.
type Meshes interface {
	Each(fn func(name string, m *scene.Mesh))
}

// Hit is the nearest material-group leaf a ray passes through.
type Hit struct {
	Mesh     string
	Node     *scene.Node
	Batch    int
	Distance float32
}

// Pick returns the leaf whose bounds the ray enters first. Subtrees whose
// bounds the ray misses are skipped.
func Pick(r Ray, meshes Meshes) (Hit, bool) {
	var best Hit
	found := false
	meshes.Each(func(name string, m *scene.Mesh) {
		if m == nil || m.Root == nil {
			return
		}
		pickNode(r, name, m.Root, &best, &found)
	})
	return best, found
}

func pickNode(r Ray, name string, n *scene.Node, best *Hit, found *bool) {
	t, ok := r.IntersectBounds(n.Bounds)
	if !ok {
		return
	}
	if n.HasBatch() && (!*found || t < best.Distance) {
		*best = Hit{Mesh: name, Node: n, Batch: n.Batch, Distance: t}
		*found = true
	}
	for _, c := range n.Children {
		pickNode(r, name, c, best, found)
	}
}
