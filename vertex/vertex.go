package vertex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axes is the number of coordinate axes of a vertex.
const Axes = 3

// AxisNames labels the axes in reports.
var AxisNames = [Axes]string{"x", "y", "z"}

// Set is an ordered sequence of 3D points.
type Set []r3.Vec

// Len returns the number of vertices.
func (s Set) Len() int { return len(s) }

// Clone returns a copy of s that shares no memory with it.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Axis returns the coordinates of all vertices along axis a (0=x, 1=y, 2=z).
func (s Set) Axis(a int) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = Component(v, a)
	}
	return out
}

// Map returns a new Set with fn applied to every vertex, preserving order.
func (s Set) Map(fn func(r3.Vec) r3.Vec) Set {
	out := make(Set, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Centroid returns the arithmetic mean of all vertices.
// The centroid of an empty set is the origin.
func (s Set) Centroid() r3.Vec {
	if len(s) == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for _, v := range s {
		sum = r3.Add(sum, v)
	}
	return r3.Scale(1/float64(len(s)), sum)
}

// Bounds returns the per-axis minimum and maximum of s.
func (s Set) Bounds() (lo, hi r3.Vec) {
	if len(s) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	lo, hi = s[0], s[0]
	for _, v := range s[1:] {
		lo = r3.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = r3.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return lo, hi
}

// IsFinite reports whether every coordinate of s is neither NaN nor infinite.
func (s Set) IsFinite() bool {
	for _, v := range s {
		for a := 0; a < Axes; a++ {
			c := Component(v, a)
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}

// Component returns coordinate a of v.
func Component(v r3.Vec, a int) float64 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		panic(fmt.Sprintf("vertex: axis %d out of range", a))
	}
}

// Apply returns the vertex obtained by applying fn to each coordinate of v.
func Apply(v r3.Vec, fn func(c float64) float64) r3.Vec {
	return r3.Vec{X: fn(v.X), Y: fn(v.Y), Z: fn(v.Z)}
}

// MulElem returns the elementwise product of a and b.
func MulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// DivElem returns the elementwise quotient a/b.
func DivElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X / b.X, Y: a.Y / b.Y, Z: a.Z / b.Z}
}
