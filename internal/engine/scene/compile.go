// Package scene compiles parsed meshes into scene graphs of render batches
// and walks those graphs to draw them.
//
// Compilation runs in two passes. CountBatches sizes the batch array, then
// Compile walks objects, groups and faces, buckets each group's faces by
// material and turns every non-empty bucket into one batch and one leaf node.
package scene

import (
	"fmt"

	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Source is a parsed mesh. *mesh.Data implements it.
type Source interface {
	NumObjects() int
	Object(i int) *mesh.Object
	PositionAt(i int) ([3]float32, bool)
	NormalAt(i int) ([3]float32, bool)
	TexCoordAt(i int) ([2]float32, bool)
	NumMaterials() int
	MaterialAt(i int) (mesh.Material, bool)
}

// Compile builds the scene graph for src and uploads its batches to dev.
// On failure every handle created so far is released and no Mesh is returned.
func Compile(src Source, dev gpu.Device) (*Mesh, error) {
	count, err := CountBatches(src)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		src:     src,
		dev:     dev,
		buckets: NewBuckets(),
		mesh: &Mesh{
			Root:      newNode(NodeRoot, ""),
			Batches:   make([]Batch, count),
			Materials: materials(src),
		},
	}

	if err := c.build(); err != nil {
		c.mesh.Destroy(dev)
		return nil, err
	}
	if c.next != len(c.mesh.Batches) {
		c.mesh.Destroy(dev)
		return nil, fmt.Errorf("%w: estimated %d, built %d", ErrBatchMismatch, len(c.mesh.Batches), c.next)
	}

	fitBounds(c.mesh.Root)
	return c.mesh, nil
}

type compiler struct {
	src     Source
	dev     gpu.Device
	buckets *Buckets
	mesh    *Mesh
	next    int // next free batch slot
}

func (c *compiler) build() error {
	root := c.mesh.Root

	for i := 0; i < c.src.NumObjects(); i++ {
		obj := c.src.Object(i)
		objNode := newNode(NodeObject, obj.Name)
		root.add(objNode)

		for g := range obj.Groups {
			group := &obj.Groups[g]
			groupNode := newNode(NodeGroup, group.Name)
			objNode.add(groupNode)

			if err := c.buildGroup(groupNode, obj, group); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *compiler) buildGroup(groupNode *Node, obj *mesh.Object, group *mesh.Group) error {
	defer c.buckets.Reset()

	for f := range group.Faces {
		key, err := MaterialKey(group.Faces[f].Material)
		if err != nil {
			return faceError(err, obj, group, f)
		}
		if err := c.buckets.Insert(key, group.Faces[f]); err != nil {
			return faceError(err, obj, group, f)
		}
	}

	return c.buckets.ForEach(func(key int, faces []mesh.Face) error {
		if err := c.emit(groupNode, key, faces); err != nil {
			return fmt.Errorf("object %q group %q: %w", obj.Name, group.Name, err)
		}
		return nil
	})
}

// emit builds the batch for one bucket into the next slot and hangs a leaf
// for it under parent.
func (c *compiler) emit(parent *Node, key int, faces []mesh.Face) error {
	if c.next >= len(c.mesh.Batches) {
		return fmt.Errorf("%w: slot %d exceeds estimate %d", ErrBatchMismatch, c.next, len(c.mesh.Batches))
	}

	slot := c.next
	batch := &c.mesh.Batches[slot]
	if err := buildBatch(batch, key, faces, c.src, c.dev); err != nil {
		return err
	}
	c.next++

	leaf := newNode(NodeMaterialGroup, c.materialName(key))
	leaf.Batch = slot
	leaf.Bounds = batch.Bounds
	parent.add(leaf)
	return nil
}

func (c *compiler) materialName(key int) string {
	idx := MaterialFromKey(key)
	if idx == mesh.NoMaterial {
		return ""
	}
	if m, ok := c.src.MaterialAt(idx); ok && m.Name != "" {
		return m.Name
	}
	return fmt.Sprintf("material%d", idx)
}

func materials(src Source) []mesh.Material {
	out := make([]mesh.Material, 0, src.NumMaterials())
	for i := 0; i < src.NumMaterials(); i++ {
		m, _ := src.MaterialAt(i)
		out = append(out, m)
	}
	return out
}
