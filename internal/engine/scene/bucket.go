package scene

import (
	"fmt"

	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// MaxMaterials bounds material keys to [0, MaxMaterials). Key 0 is reserved
// for faces without a material, so material indices 0..MaxMaterials-2 fit.
const MaxMaterials = 256

// MaterialKey maps a face material index to its bucket key. Both compile
// passes validate through this function.
func MaterialKey(material int) (int, error) {
	key := material + 1
	if key < 0 || key >= MaxMaterials {
		return 0, fmt.Errorf("%w: material %d (key %d, limit %d)", ErrMaterialRange, material, key, MaxMaterials)
	}
	return key, nil
}

// MaterialFromKey restores the material index a key was derived from.
func MaterialFromKey(key int) int {
	return key - 1
}

// Buckets groups the faces of one group by material key. Bucket storage is
// kept across Reset so the table can be reused group after group.
type Buckets struct {
	faces [MaxMaterials][]mesh.Face
	hi    int // highest key inserted since Reset, -1 when empty
}

// NewBuckets returns an empty table.
func NewBuckets() *Buckets {
	return &Buckets{hi: -1}
}

// Insert appends face to the bucket for key.
func (b *Buckets) Insert(key int, face mesh.Face) error {
	if key < 0 || key >= MaxMaterials {
		return fmt.Errorf("%w: key %d (limit %d)", ErrMaterialRange, key, MaxMaterials)
	}
	b.faces[key] = append(b.faces[key], face)
	if key > b.hi {
		b.hi = key
	}
	return nil
}

// ForEach calls fn for every non-empty bucket in ascending key order and
// stops at the first error.
func (b *Buckets) ForEach(fn func(key int, faces []mesh.Face) error) error {
	for key := 0; key <= b.hi; key++ {
		if len(b.faces[key]) == 0 {
			continue
		}
		if err := fn(key, b.faces[key]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of non-empty buckets.
func (b *Buckets) Len() int {
	n := 0
	for key := 0; key <= b.hi; key++ {
		if len(b.faces[key]) > 0 {
			n++
		}
	}
	return n
}

// Reset empties every bucket.
func (b *Buckets) Reset() {
	for key := 0; key <= b.hi; key++ {
		b.faces[key] = b.faces[key][:0]
	}
	b.hi = -1
}
