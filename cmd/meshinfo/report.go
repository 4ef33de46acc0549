package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Faultbox/meshgraph/internal/engine/scene"
	"github.com/Faultbox/meshgraph/internal/engine/texture"
)

func printInfo(out io.Writer, path string, m *scene.Mesh) {
	s := m.Stats()
	fmt.Fprintf(out, "File:      %s\n", path)
	fmt.Fprintf(out, "Objects:   %d\n", s.Objects)
	fmt.Fprintf(out, "Groups:    %d\n", s.Groups)
	fmt.Fprintf(out, "Batches:   %d\n", s.Batches)
	fmt.Fprintf(out, "Faces:     %d\n", s.Faces)
	fmt.Fprintf(out, "Vertices:  %d\n", s.Vertices)
	fmt.Fprintf(out, "Normals:   %d/%d batches\n", s.WithNormals, s.Batches)
	fmt.Fprintf(out, "TexCoords: %d/%d batches\n", s.WithTexCoords, s.Batches)
	fmt.Fprintf(out, "Materials: %d\n", len(m.Materials))

	b := m.Root.Bounds
	if !b.Empty() {
		fmt.Fprintf(out, "Bounds:    (%.3g, %.3g, %.3g) - (%.3g, %.3g, %.3g)\n",
			b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
	}
}

func printTree(out io.Writer, path string, m *scene.Mesh) {
	fmt.Fprintln(out, path)
	m.Walk(func(n *scene.Node, depth int) {
		if n.Kind == scene.NodeRoot {
			return
		}
		indent := strings.Repeat("  ", depth)
		switch {
		case n.HasBatch():
			b := &m.Batches[n.Batch]
			name := n.Name
			if name == "" {
				name = "(no material)"
			}
			fmt.Fprintf(out, "%s%s %s [batch %d, %d faces]\n", indent, n.Kind, name, n.Batch, b.FaceCount)
		default:
			fmt.Fprintf(out, "%s%s %s\n", indent, n.Kind, n.Name)
		}
	})
}

func printBatches(out io.Writer, path string, m *scene.Mesh) {
	fmt.Fprintf(out, "%s: %d batches\n", path, len(m.Batches))
	fmt.Fprintf(out, "  %-5s %-4s %-20s %7s  %s\n", "SLOT", "KEY", "MATERIAL", "FACES", "STREAMS")
	for i := range m.Batches {
		b := &m.Batches[i]
		material := "-"
		if mat, ok := m.Material(b); ok {
			material = mat.Name
		}
		streams := "position"
		if b.HasNormals {
			streams += ",normal"
		}
		if b.HasTexCoords {
			streams += ",texCoord"
		}
		fmt.Fprintf(out, "  %-5d %-4d %-20s %7d  %s\n", i, b.Key, material, b.FaceCount, streams)
	}
}

func printTextures(out io.Writer, path string, m *scene.Mesh) {
	refs := texture.InspectMaps(path, m.Materials)
	fmt.Fprintf(out, "%s: %d diffuse maps\n", path, len(refs))
	for _, r := range refs {
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "  %-20s %s: %v\n", r.Material, r.Path, r.Err)
		case r.Path == "":
			fmt.Fprintf(out, "  %-20s (%s)\n", r.Material, r.Info.Format)
		default:
			fmt.Fprintf(out, "  %-20s %s %dx%d %s\n", r.Material, r.Path, r.Info.Width, r.Info.Height, r.Info.Format)
		}
	}
}
