package scene

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/pkg/mesh"
)

func newTestDevice() *gpu.Recorder {
	return gpu.NewRecorder()
}

func TestCompileSingleGroupTwoMaterials(t *testing.T) {
	// 3 faces with material A (index 0), 2 with no material.
	data := withObjects(pools(15), object("house", group("walls",
		tri(0, 0), tri(3, -1), tri(6, 0), tri(9, -1), tri(12, 0))))
	data.Materials = []mesh.Material{mesh.DefaultMaterial("brick")}

	dev := newTestDevice()
	m, err := Compile(data, dev)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if len(m.Batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(m.Batches))
	}
	if len(m.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(m.Root.Children))
	}
	obj := m.Root.Children[0]
	if obj.Kind != NodeObject || obj.Name != "house" || obj.HasBatch() {
		t.Errorf("unexpected object node %+v", obj)
	}
	if len(obj.Children) != 1 {
		t.Fatalf("object has %d children, want 1", len(obj.Children))
	}
	grp := obj.Children[0]
	if grp.Kind != NodeGroup || grp.Name != "walls" || grp.HasBatch() {
		t.Errorf("unexpected group node %+v", grp)
	}
	if len(grp.Children) != 2 {
		t.Fatalf("group has %d children, want 2", len(grp.Children))
	}

	none := &m.Batches[grp.Children[0].Batch]
	brick := &m.Batches[grp.Children[1].Batch]
	if none.Key != 0 || none.Material != mesh.NoMaterial || none.FaceCount != 2 {
		t.Errorf("first batch = key %d material %d faces %d; want no-material batch with 2 faces", none.Key, none.Material, none.FaceCount)
	}
	if brick.Key != 1 || brick.Material != 0 || brick.FaceCount != 3 {
		t.Errorf("second batch = key %d material %d faces %d; want material 0 with 3 faces", brick.Key, brick.Material, brick.FaceCount)
	}
	if grp.Children[1].Name != "brick" {
		t.Errorf("leaf name = %q, want brick", grp.Children[1].Name)
	}
	if mat, ok := m.Material(brick); !ok || mat.Name != "brick" {
		t.Errorf("Material() = %+v, %v", mat, ok)
	}
	if _, ok := m.Material(none); ok {
		t.Error("no-material batch should not resolve a material")
	}
}

func TestCompileMaterialReuseAcrossGroups(t *testing.T) {
	data := withObjects(pools(6), object("o",
		group("left", tri(0, 0)),
		group("right", tri(3, 0))))

	m, err := Compile(data, newTestDevice())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(m.Batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(m.Batches))
	}
	groups := m.Root.Children[0].Children
	if len(groups) != 2 {
		t.Fatalf("got %d group nodes, want 2", len(groups))
	}
	for i, g := range groups {
		if len(g.Children) != 1 {
			t.Fatalf("group %d has %d leaves, want 1", i, len(g.Children))
		}
		if b := m.Batches[g.Children[0].Batch]; b.Material != 0 || b.FaceCount != 1 {
			t.Errorf("group %d batch = material %d faces %d", i, b.Material, b.FaceCount)
		}
	}
}

func TestCompileEmptyInput(t *testing.T) {
	dev := newTestDevice()
	m, err := Compile(&mesh.Data{}, dev)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if m != nil {
		t.Error("expected nil mesh")
	}
}

func TestCompileSiblingOrder(t *testing.T) {
	data := withObjects(pools(18),
		object("first", group("g",
			tri(0, 4), tri(3, 1), tri(6, -1), tri(9, 4), tri(12, 0), tri(15, 1))),
		object("second", group("a"), group("b", tri(0, 2))))

	m, err := Compile(data, newTestDevice())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := m.Root.Children[0].Name + "," + m.Root.Children[1].Name; got != "first,second" {
		t.Errorf("object order = %s", got)
	}
	second := m.Root.Children[1]
	if len(second.Children) != 2 || second.Children[0].Name != "a" || second.Children[1].Name != "b" {
		t.Errorf("group order under second is wrong")
	}
	if len(second.Children[0].Children) != 0 {
		t.Error("empty group should have no leaves")
	}

	leaves := m.Root.Children[0].Children[0].Children
	wantKeys := []int{0, 1, 2, 5}
	if len(leaves) != len(wantKeys) {
		t.Fatalf("got %d leaves, want %d", len(leaves), len(wantKeys))
	}
	for i, leaf := range leaves {
		if got := m.Batches[leaf.Batch].Key; got != wantKeys[i] {
			t.Errorf("leaf %d key = %d, want %d", i, got, wantKeys[i])
		}
		if leaf.Batch != i {
			t.Errorf("leaf %d uses slot %d, want %d", i, leaf.Batch, i)
		}
	}
}

func TestCompileFlattensTriangleMajor(t *testing.T) {
	data := withObjects(pools(6), object("o", group("g",
		mesh.Face{Positions: [3]int{2, 1, 0}, Normals: [3]int{0, 0, 0}, TexCoords: [3]int{5, 4, 3}, Material: 0},
		mesh.Face{Positions: [3]int{3, 4, 5}, Normals: [3]int{1, 1, 1}, TexCoords: [3]int{0, 1, 2}, Material: 0})))

	dev := newTestDevice()
	m, err := Compile(data, dev)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b := &m.Batches[0]

	wantPositions := []float32{}
	for _, idx := range []int{2, 1, 0, 3, 4, 5} {
		p := data.Positions[idx]
		wantPositions = append(wantPositions, p[0], p[1], p[2])
	}
	if !equalFloats(b.Positions, wantPositions) {
		t.Errorf("positions = %v, want %v", b.Positions, wantPositions)
	}
	if len(b.Normals) != 18 || len(b.TexCoords) != 12 {
		t.Errorf("normal/texcoord lengths = %d/%d, want 18/12", len(b.Normals), len(b.TexCoords))
	}
	if b.TexCoords[0] != 5 || b.TexCoords[6] != 0 {
		t.Errorf("texcoords not in face order: %v", b.TexCoords)
	}

	buf, ok := dev.Buffer(b.PositionBuffer)
	if !ok {
		t.Fatal("position buffer not uploaded")
	}
	if buf.Attrib != gpu.AttribPosition || buf.VertexCount != 6 || buf.Components != 3 || buf.VAO != b.VAO {
		t.Errorf("unexpected position buffer %+v", buf)
	}
	tc, ok := dev.Buffer(b.TexCoordBuffer)
	if !ok || tc.Components != 2 || tc.Attrib != gpu.AttribTexCoord {
		t.Errorf("unexpected texcoord buffer %+v", tc)
	}
}

func TestCompileAttributeSuppression(t *testing.T) {
	noNormals := tri(3, 0)
	noNormals.Normals = [3]int{mesh.NoIndex, mesh.NoIndex, mesh.NoIndex}
	noTex := tri(6, 1)
	noTex.TexCoords[1] = mesh.NoIndex

	data := withObjects(pools(12), object("o", group("g",
		tri(0, 0), noNormals, tri(9, 0),
		tri(0, 1), noTex,
		bare(0, 2))))

	dev := newTestDevice()
	m, err := Compile(data, dev)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	tests := []struct {
		slot      int
		normals   bool
		texCoords bool
	}{
		{0, false, true},
		{1, true, false},
		{2, false, false},
	}
	for _, tt := range tests {
		b := &m.Batches[tt.slot]
		if b.HasNormals != tt.normals || b.HasTexCoords != tt.texCoords {
			t.Errorf("batch %d flags = normals %v texcoords %v, want %v %v", tt.slot, b.HasNormals, b.HasTexCoords, tt.normals, tt.texCoords)
		}
		if !tt.normals && (b.Normals != nil || b.NormalBuffer != 0) {
			t.Errorf("batch %d kept a normal stream", tt.slot)
		}
		if !tt.texCoords && (b.TexCoords != nil || b.TexCoordBuffer != 0) {
			t.Errorf("batch %d kept a texcoord stream", tt.slot)
		}
		if len(b.Positions) != b.FaceCount*9 {
			t.Errorf("batch %d has %d position floats, want %d", tt.slot, len(b.Positions), b.FaceCount*9)
		}
	}

	vaos, bufs := dev.Live()
	if vaos != 3 || bufs != 2+2+1 {
		t.Errorf("Live() = %d vaos %d buffers, want 3 and 5", vaos, bufs)
	}
}

func TestCompileAttributeResolutionFailure(t *testing.T) {
	bad := tri(0, 1)
	bad.Normals[2] = 99

	data := withObjects(pools(6), object("o",
		group("ok", tri(0, 0), tri(3, -1)),
		group("bad", bad)))

	dev := newTestDevice()
	m, err := Compile(data, dev)
	if !errors.Is(err, ErrAttributeResolution) {
		t.Fatalf("expected ErrAttributeResolution, got %v", err)
	}
	if m != nil {
		t.Error("expected nil mesh")
	}
	if vaos, bufs := dev.Live(); vaos != 0 || bufs != 0 {
		t.Errorf("leaked %d vaos and %d buffers", vaos, bufs)
	}
}

func TestCompileBadIndexFailsRegardlessOfFaceOrder(t *testing.T) {
	badNormal := tri(0, 0)
	badNormal.Normals[1] = 99
	badTexCoord := tri(0, 0)
	badTexCoord.TexCoords[0] = 99
	partialNormal := bare(3, 0)
	partialNormal.Normals = [3]int{99, mesh.NoIndex, 0}
	partialTexCoord := bare(3, 0)
	partialTexCoord.TexCoords = [3]int{mesh.NoIndex, 0, 99}

	tests := []struct {
		name  string
		faces []mesh.Face
	}{
		{"bad normal first", []mesh.Face{badNormal, bare(3, 0)}},
		{"bad normal after stream dropped", []mesh.Face{bare(3, 0), badNormal}},
		{"bad texcoord first", []mesh.Face{badTexCoord, bare(3, 0)}},
		{"bad texcoord after stream dropped", []mesh.Face{bare(3, 0), badTexCoord}},
		{"bad normal beside missing corner", []mesh.Face{tri(0, 0), partialNormal}},
		{"bad texcoord beside missing corner", []mesh.Face{partialTexCoord, tri(0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := withObjects(pools(6), object("o", group("g", tt.faces...)))
			dev := newTestDevice()

			m, err := Compile(data, dev)
			if !errors.Is(err, ErrAttributeResolution) {
				t.Fatalf("expected ErrAttributeResolution, got %v", err)
			}
			if m != nil {
				t.Error("expected nil mesh")
			}
			if vaos, bufs := dev.Live(); vaos != 0 || bufs != 0 {
				t.Errorf("leaked %d vaos and %d buffers", vaos, bufs)
			}
		})
	}
}

func TestCompileBadPositionIndex(t *testing.T) {
	data := withObjects(pools(3), object("o", group("g", tri(1, -1))))
	if _, err := Compile(data, newTestDevice()); !errors.Is(err, ErrAttributeResolution) {
		t.Errorf("expected ErrAttributeResolution, got %v", err)
	}
}

func TestCompileAllocationFailure(t *testing.T) {
	data := withObjects(pools(9), object("o", group("g", tri(0, 0), tri(3, 1), tri(6, 2))))

	for fail := 1; fail <= 9; fail++ {
		dev := newTestDevice()
		dev.FailUpload = fail
		m, err := Compile(data, dev)
		if !errors.Is(err, ErrAllocation) || !errors.Is(err, gpu.ErrUpload) {
			t.Errorf("fail=%d: expected ErrAllocation wrapping gpu.ErrUpload, got %v", fail, err)
		}
		if m != nil {
			t.Errorf("fail=%d: expected nil mesh", fail)
		}
		if vaos, bufs := dev.Live(); vaos != 0 || bufs != 0 {
			t.Errorf("fail=%d: leaked %d vaos and %d buffers", fail, vaos, bufs)
		}
	}
}

func TestCompileMaterialRangeAborts(t *testing.T) {
	data := withObjects(pools(6), object("o",
		group("fine", tri(0, 0)),
		group("broken", tri(3, MaxMaterials-1))))

	dev := newTestDevice()
	m, err := Compile(data, dev)
	if !errors.Is(err, ErrMaterialRange) {
		t.Fatalf("expected ErrMaterialRange, got %v", err)
	}
	if m != nil {
		t.Error("expected nil mesh")
	}
	if dev.Uploads() != 0 {
		t.Errorf("estimator should reject before any upload, got %d uploads", dev.Uploads())
	}
}

func TestCompileIdempotent(t *testing.T) {
	build := func() *Mesh {
		data := withObjects(pools(12),
			object("a", group("g", tri(0, 2), tri(3, -1), tri(6, 2)), group("h", bare(9, 0))),
			object("b", group("g", tri(0, 1), tri(3, 0))))
		m, err := Compile(data, newTestDevice())
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		return m
	}

	a, b := build(), build()
	var shapeA, shapeB []string
	record := func(dst *[]string, m *Mesh) func(*Node, int) {
		return func(n *Node, depth int) {
			faces := -1
			if n.HasBatch() {
				faces = m.Batches[n.Batch].FaceCount
			}
			*dst = append(*dst, fmt.Sprintf("%s/%s/%d/%d", n.Kind, n.Name, depth, faces))
		}
	}
	a.Walk(record(&shapeA, a))
	b.Walk(record(&shapeB, b))

	if len(shapeA) != len(shapeB) {
		t.Fatalf("shapes differ in size: %d vs %d", len(shapeA), len(shapeB))
	}
	for i := range shapeA {
		if shapeA[i] != shapeB[i] {
			t.Errorf("node %d differs: %s vs %s", i, shapeA[i], shapeB[i])
		}
	}
}

func TestCompileBounds(t *testing.T) {
	data := withObjects(pools(6), object("o", group("g", tri(0, 0), tri(3, -1))))
	m, err := Compile(data, newTestDevice())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	root := m.Root.Bounds
	if root.Empty() {
		t.Fatal("root bounds are empty")
	}
	if root.Min[0] != 0 || root.Max[0] != 5 || root.Min[2] != -5 || root.Max[2] != 0 {
		t.Errorf("root bounds = %v..%v", root.Min, root.Max)
	}
	grp := m.Root.Children[0].Children[0]
	if grp.Bounds != root {
		t.Errorf("group bounds %v differ from root %v", grp.Bounds, root)
	}
	if leaf := grp.Children[0]; leaf.Bounds != m.Batches[leaf.Batch].Bounds {
		t.Error("leaf bounds differ from batch bounds")
	}
}

func TestMeshDestroyReleasesOnce(t *testing.T) {
	data := withObjects(pools(6), object("o", group("g", tri(0, 0), tri(3, -1))))
	dev := newTestDevice()
	m, err := Compile(data, dev)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	m.Destroy(dev)
	if vaos, bufs := dev.Live(); vaos != 0 || bufs != 0 {
		t.Errorf("Destroy left %d vaos and %d buffers", vaos, bufs)
	}
	// The recorder panics on double deletes.
	m.Destroy(dev)
}

func TestMeshStats(t *testing.T) {
	data := withObjects(pools(9),
		object("a", group("g", tri(0, 0), bare(3, 0)), group("h", tri(6, 1))),
		object("b", group("g", tri(0, -1))))
	m, err := Compile(data, newTestDevice())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := Stats{Objects: 2, Groups: 3, Batches: 3, Faces: 4, Vertices: 12, WithNormals: 2, WithTexCoords: 2}
	if got := m.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func equalFloats(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
