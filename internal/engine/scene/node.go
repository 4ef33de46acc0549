package scene

import "fmt"

// NoBatch marks a node that carries no batch.
const NoBatch = -1

// NodeKind tags the level a node sits at in the graph.
type NodeKind uint8

const (
	NodeRoot NodeKind = iota
	NodeObject
	NodeGroup
	NodeMaterialGroup
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeRoot:
		return "root"
	case NodeObject:
		return "object"
	case NodeGroup:
		return "group"
	case NodeMaterialGroup:
		return "material"
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// Node is one vertex of the scene graph. Only material-group nodes reference
// a batch; Batch indexes Mesh.Batches.
type Node struct {
	Kind     NodeKind
	Name     string
	Batch    int
	Bounds   Bounds
	Children []*Node
}

func newNode(kind NodeKind, name string) *Node {
	return &Node{
		Kind:   kind,
		Name:   name,
		Batch:  NoBatch,
		Bounds: EmptyBounds(),
	}
}

// HasBatch reports whether the node references a batch.
func (n *Node) HasBatch() bool {
	return n.Batch != NoBatch
}

func (n *Node) add(child *Node) {
	n.Children = append(n.Children, child)
}

// fitBounds sets every inner node's bounds to the union of its children.
func fitBounds(n *Node) Bounds {
	for _, child := range n.Children {
		n.Bounds.Union(fitBounds(child))
	}
	return n.Bounds
}
