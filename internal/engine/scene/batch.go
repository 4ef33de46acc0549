package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Batch is the flattened vertex data of all faces sharing one material inside
// one group. Streams are triangle-major: every 3 vertices form one face, in
// source face order. A batch is written once by Compile and never changed.
type Batch struct {
	Key       int // material key, 0 for "no material"
	Material  int // source material index, mesh.NoMaterial for key 0
	FaceCount int

	Positions []float32 // 3 floats per vertex
	Normals   []float32 // 3 floats per vertex, nil unless HasNormals
	TexCoords []float32 // 2 floats per vertex, nil unless HasTexCoords

	HasNormals   bool
	HasTexCoords bool

	Bounds Bounds

	VAO            gpu.Handle
	PositionBuffer gpu.Handle
	NormalBuffer   gpu.Handle
	TexCoordBuffer gpu.Handle
}

// VertexCount returns the number of vertices drawn for the batch.
func (b *Batch) VertexCount() int {
	return b.FaceCount * 3
}

// buildBatch flattens faces into dst and uploads the streams. A single face
// without normals drops normals for the whole batch; texture coordinates
// follow the same rule. A present index that does not resolve is an error
// whether or not its stream survives. On error nothing stays allocated on
// dev.
func buildBatch(dst *Batch, key int, faces []mesh.Face, src Source, dev gpu.Device) error {
	n := len(faces)
	positions := make([]float32, 0, n*9)
	normals := make([]float32, 0, n*9)
	texCoords := make([]float32, 0, n*6)
	hasNormals, hasTexCoords := true, true
	bounds := EmptyBounds()
	var normalCorners [3][3]float32
	var texCorners [3][2]float32

	for i := range faces {
		face := &faces[i]

		for _, idx := range face.Positions {
			p, ok := src.PositionAt(idx)
			if !ok {
				return fmt.Errorf("%w: position %d in face %d of material %d", ErrAttributeResolution, idx, i, MaterialFromKey(key))
			}
			positions = append(positions, p[0], p[1], p[2])
			bounds.Extend(mgl32.Vec3(p))
		}

		// Present indices must resolve even after the stream is dropped.
		for c, idx := range face.Normals {
			if idx == mesh.NoIndex {
				continue
			}
			nv, ok := src.NormalAt(idx)
			if !ok {
				return fmt.Errorf("%w: normal %d in face %d of material %d", ErrAttributeResolution, idx, i, MaterialFromKey(key))
			}
			normalCorners[c] = nv
		}
		for c, idx := range face.TexCoords {
			if idx == mesh.NoIndex {
				continue
			}
			tc, ok := src.TexCoordAt(idx)
			if !ok {
				return fmt.Errorf("%w: texcoord %d in face %d of material %d", ErrAttributeResolution, idx, i, MaterialFromKey(key))
			}
			texCorners[c] = tc
		}

		if hasNormals && !face.HasNormals() {
			hasNormals = false
			normals = nil
		}
		if hasNormals {
			for _, nv := range normalCorners {
				normals = append(normals, nv[0], nv[1], nv[2])
			}
		}

		if hasTexCoords && !face.HasTexCoords() {
			hasTexCoords = false
			texCoords = nil
		}
		if hasTexCoords {
			for _, tc := range texCorners {
				texCoords = append(texCoords, tc[0], tc[1])
			}
		}
	}

	*dst = Batch{
		Key:          key,
		Material:     MaterialFromKey(key),
		FaceCount:    n,
		Positions:    positions,
		Normals:      normals,
		TexCoords:    texCoords,
		HasNormals:   hasNormals,
		HasTexCoords: hasTexCoords,
		Bounds:       bounds,
	}

	if err := dst.upload(dev); err != nil {
		dst.release(dev)
		return err
	}
	return nil
}

func (b *Batch) upload(dev gpu.Device) error {
	vao, err := dev.CreateVertexArray()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	b.VAO = vao

	vertices := b.VertexCount()

	b.PositionBuffer, err = dev.UploadVertexBuffer(vao, gpu.AttribPosition, b.Positions, vertices, 3)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocation, err)
	}

	if b.HasNormals {
		b.NormalBuffer, err = dev.UploadVertexBuffer(vao, gpu.AttribNormal, b.Normals, vertices, 3)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAllocation, err)
		}
	}

	if b.HasTexCoords {
		b.TexCoordBuffer, err = dev.UploadVertexBuffer(vao, gpu.AttribTexCoord, b.TexCoords, vertices, 2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrAllocation, err)
		}
	}

	return nil
}

// release frees every handle the batch holds and zeroes them.
func (b *Batch) release(dev gpu.Device) {
	if b.TexCoordBuffer != 0 {
		dev.DeleteBuffer(b.TexCoordBuffer)
		b.TexCoordBuffer = 0
	}
	if b.NormalBuffer != 0 {
		dev.DeleteBuffer(b.NormalBuffer)
		b.NormalBuffer = 0
	}
	if b.PositionBuffer != 0 {
		dev.DeleteBuffer(b.PositionBuffer)
		b.PositionBuffer = 0
	}
	if b.VAO != 0 {
		dev.DeleteVertexArray(b.VAO)
		b.VAO = 0
	}
}
