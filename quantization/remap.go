package quantization

import (
	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

// ToUnit maps coordinates from [-1,1] to [0,1]: (x+1)/2.
func ToUnit(s vertex.Set) vertex.Set {
	return s.Map(func(v r3.Vec) r3.Vec {
		return vertex.Apply(v, func(c float64) float64 { return (c + 1) / 2 })
	})
}

// FromUnit is the inverse of ToUnit: x*2-1.
func FromUnit(s vertex.Set) vertex.Set {
	return s.Map(func(v r3.Vec) r3.Vec {
		return vertex.Apply(v, func(c float64) float64 { return c*2 - 1 })
	})
}
