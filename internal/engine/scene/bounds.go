package scene

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBounds returns a box that contains nothing. Extending it with a point
// yields a box around that point.
func EmptyBounds() Bounds {
	return Bounds{
		Min: mgl32.Vec3{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: mgl32.Vec3{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := range p {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union grows the box to contain other.
func (b *Bounds) Union(other Bounds) {
	if other.Empty() {
		return
	}
	b.Extend(other.Min)
	b.Extend(other.Max)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the length of the box diagonal.
func (b Bounds) Size() float32 {
	if b.Empty() {
		return 0
	}
	return b.Max.Sub(b.Min).Len()
}
