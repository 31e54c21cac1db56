package vertex

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid motion: an optional rotation followed by a translation.
// The zero value is the identity.
type Transform struct {
	Name        string
	Translation r3.Vec

	rotation r3.Rotation
	rotates  bool
}

// Rotation returns a transform rotating by degrees about axis.
func Rotation(name string, axis r3.Vec, degrees float64) Transform {
	return Transform{
		Name:     name,
		rotation: r3.NewRotation(degrees*math.Pi/180, r3.Unit(axis)),
		rotates:  true,
	}
}

// Translation returns a transform shifting every vertex by t.
func Translation(name string, t r3.Vec) Transform {
	return Transform{Name: name, Translation: t}
}

// Apply transforms a single vertex.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	if t.rotates {
		v = t.rotation.Rotate(v)
	}
	return r3.Add(v, t.Translation)
}

// Rotate applies only the rotational part of t.
func (t Transform) Rotate(v r3.Vec) r3.Vec {
	if !t.rotates {
		return v
	}
	return t.rotation.Rotate(v)
}

// ApplySet transforms every vertex of s and returns the result as a new Set.
func (t Transform) ApplySet(s Set) Set {
	return s.Map(t.Apply)
}

// DefaultVariants are the rigid motions used to probe invariance of the
// normalization and the adaptive quantizer.
func DefaultVariants() []Transform {
	return []Transform{
		Rotation("rot_30", r3.Vec{X: 1}, 30),
		Rotation("rot_60", r3.Vec{Y: 1}, 60),
		Translation("trans_shift", r3.Vec{X: 0.3, Y: 0.2, Z: 0.1}),
	}
}
