package vertex

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a Set per axis.
type Stats struct {
	N    int           `json:"n_vertices"`
	Min  [Axes]float64 `json:"min"`
	Max  [Axes]float64 `json:"max"`
	Mean [Axes]float64 `json:"mean"`
	Std  [Axes]float64 `json:"std"`
}

// Summarize computes per-axis statistics of s.
// Std is the population standard deviation.
func Summarize(s Set) Stats {
	st := Stats{N: len(s)}
	if len(s) == 0 {
		return st
	}
	for a := 0; a < Axes; a++ {
		col := s.Axis(a)
		st.Min[a] = floats.Min(col)
		st.Max[a] = floats.Max(col)
		st.Mean[a] = stat.Mean(col, nil)
		st.Std[a] = math.Sqrt(stat.PopVariance(col, nil))
	}
	return st
}
