package density

import (
	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/stat"
)

// DefaultK is the neighbor count used by the adaptive quantizer.
const DefaultK = 8

// Estimate returns the mean distance from each vertex of s to its k nearest
// other vertices, using Default.
func Estimate(s vertex.Set, k int) ([]float64, error) {
	return EstimateWith(Default, s, k)
}

// EstimateWith is Estimate with an explicit NeighborQuery.
func EstimateWith(q NeighborQuery, s vertex.Set, k int) ([]float64, error) {
	if q == nil {
		q = Default
	}
	neighbors, err := q.KNearest(s, k)
	if err != nil {
		return nil, err
	}
	field := make([]float64, len(neighbors))
	for i, d := range neighbors {
		field[i] = stat.Mean(d, nil)
	}
	return field, nil
}

// Mean returns the average of a density field, or 0 for an empty field.
func Mean(field []float64) float64 {
	if len(field) == 0 {
		return 0
	}
	return stat.Mean(field, nil)
}
