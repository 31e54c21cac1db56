package quantization

import (
	"fmt"
	"math"

	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snap rounds v onto the float lattice with the given number of bins per unit:
// round(v*bins)/bins per coordinate.
func Snap(v r3.Vec, bins int) r3.Vec {
	b := float64(bins)
	return vertex.Apply(v, func(c float64) float64 { return math.Round(c*b) / b })
}

// Lattice snaps every vertex of s onto the same float lattice. It is the
// uniform baseline the adaptive quantizer is compared against.
func Lattice(s vertex.Set, bins int) (vertex.Set, error) {
	if bins < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBins, bins)
	}
	return s.Map(func(v r3.Vec) r3.Vec { return Snap(v, bins) }), nil
}
