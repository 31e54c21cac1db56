package quantization

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/meshq/density"
	"github.com/hupe1980/meshq/vertex"
)

// Default adaptive quantizer settings.
const (
	DefaultBaseBins = 1024
	DefaultMinBins  = 256
	DefaultMaxBins  = 2048
)

// Adaptive quantizes each vertex at a resolution derived from its local density.
type Adaptive struct {
	// BaseBins is the bin count of a vertex with exactly average density.
	BaseBins int
	// MinBins and MaxBins clip the per-vertex bin count.
	MinBins int
	MaxBins int
	// K is the neighbor count of the density estimate.
	K int
	// Query answers neighbor lookups. Nil uses density.Default.
	Query density.NeighborQuery
}

// DefaultAdaptive returns base 1024, bins in [256, 2048] and k=8.
func DefaultAdaptive() Adaptive {
	return Adaptive{
		BaseBins: DefaultBaseBins,
		MinBins:  DefaultMinBins,
		MaxBins:  DefaultMaxBins,
		K:        density.DefaultK,
	}
}

// Validate checks the bin limits and neighbor count.
func (a Adaptive) Validate() error {
	if a.BaseBins < 1 {
		return fmt.Errorf("%w: base bins %d", ErrInvalidBins, a.BaseBins)
	}
	if a.MinBins < 1 || a.MaxBins < a.MinBins {
		return fmt.Errorf("%w: clip range [%d, %d]", ErrInvalidBins, a.MinBins, a.MaxBins)
	}
	if a.K < 1 {
		return fmt.Errorf("%w: got %d", density.ErrInvalidK, a.K)
	}
	return nil
}

// BinMap is the per-vertex bin count of one adaptive run.
type BinMap struct {
	Counts []int
	// ClippedLow holds the vertices raised to the minimum bin count.
	ClippedLow *roaring.Bitmap
	// ClippedHigh holds the vertices lowered to the maximum bin count.
	ClippedHigh *roaring.Bitmap
}

// NewBinMap derives bin counts from a density field:
// bins = base / (density / mean), clipped to [minBins, maxBins] and rounded.
//
// A zero density (duplicate points) yields an unbounded raw count and is
// clipped to maxBins. A field whose mean is zero carries no relative
// information, so every vertex gets base.
func NewBinMap(field []float64, base, minBins, maxBins int) BinMap {
	m := BinMap{
		Counts:      make([]int, len(field)),
		ClippedLow:  roaring.New(),
		ClippedHigh: roaring.New(),
	}
	mean := density.Mean(field)
	for i, d := range field {
		raw := float64(base)
		if mean > 0 && !math.IsInf(mean, 0) {
			raw = float64(base) / (d / mean)
		}
		switch {
		case math.IsNaN(raw) || raw > float64(maxBins):
			raw = float64(maxBins)
			m.ClippedHigh.Add(uint32(i))
		case raw < float64(minBins):
			raw = float64(minBins)
			m.ClippedLow.Add(uint32(i))
		}
		m.Counts[i] = int(math.Round(raw))
	}
	return m
}

// Clipped returns how many vertices hit either bound.
func (m BinMap) Clipped() uint64 {
	return m.ClippedLow.GetCardinality() + m.ClippedHigh.GetCardinality()
}

// AdaptiveResult is the output of one adaptive quantization.
type AdaptiveResult struct {
	Vertices    vertex.Set
	Bins        BinMap
	Density     []float64
	MeanDensity float64
}

// Quantize estimates density on s, derives a bin count per vertex and snaps
// each vertex to round(v*bins)/bins with its own count. The result has the
// same length and order as s.
func (a Adaptive) Quantize(s vertex.Set) (AdaptiveResult, error) {
	if err := a.Validate(); err != nil {
		return AdaptiveResult{}, err
	}
	field, err := density.EstimateWith(a.Query, s, a.K)
	if err != nil {
		return AdaptiveResult{}, err
	}
	bins := NewBinMap(field, a.BaseBins, a.MinBins, a.MaxBins)

	out := make(vertex.Set, len(s))
	for i, v := range s {
		out[i] = Snap(v, bins.Counts[i])
	}
	return AdaptiveResult{
		Vertices:    out,
		Bins:        bins,
		Density:     field,
		MeanDensity: density.Mean(field),
	}, nil
}
