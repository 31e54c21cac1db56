package quantization

import (
	"math"
	"testing"

	"github.com/hupe1980/meshq/density"
	"github.com/hupe1980/meshq/normalize"
	"github.com/hupe1980/meshq/testutil"
	"github.com/hupe1980/meshq/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBinMap_InverseToDensity(t *testing.T) {
	field := []float64{1, 2, 4}

	m := NewBinMap(field, 1024, 1, 1<<20)

	// mean = 7/3
	assert.Equal(t, int(math.Round(1024*7.0/3)), m.Counts[0])
	assert.Equal(t, int(math.Round(1024*7.0/6)), m.Counts[1])
	assert.Equal(t, int(math.Round(1024*7.0/12)), m.Counts[2])
	assert.Equal(t, uint64(0), m.Clipped())
}

func TestNewBinMap_ClippingBounds(t *testing.T) {
	field := []float64{0, 1e-300, 1e-12, 1, 1, 1, 1e6, 1e300}

	m := NewBinMap(field, DefaultBaseBins, DefaultMinBins, DefaultMaxBins)

	for i, c := range m.Counts {
		assert.GreaterOrEqual(t, c, DefaultMinBins, "vertex %d", i)
		assert.LessOrEqual(t, c, DefaultMaxBins, "vertex %d", i)
	}
	assert.True(t, m.ClippedHigh.Contains(0))
	assert.True(t, m.ClippedHigh.Contains(1))
	assert.True(t, m.ClippedLow.Contains(uint32(len(field)-1)))
}

func TestNewBinMap_ZeroMean(t *testing.T) {
	m := NewBinMap([]float64{0, 0, 0}, 1024, 256, 2048)

	assert.Equal(t, []int{1024, 1024, 1024}, m.Counts)
	assert.Equal(t, uint64(0), m.Clipped())
}

func TestAdaptive_DenserGetsMoreBins(t *testing.T) {
	cloud := testutil.NewRNG(4711).DenseAndSparse(60, 60)
	norm, _ := normalize.NormalizeUnitSphere(cloud)

	// A wide clip range keeps clipping from dominating the comparison.
	a := Adaptive{BaseBins: 1024, MinBins: 1, MaxBins: 1 << 24, K: density.DefaultK}
	res, err := a.Quantize(norm)
	require.NoError(t, err)

	minDense := math.MaxInt
	for i := 0; i < 60; i++ {
		minDense = min(minDense, res.Bins.Counts[i])
	}
	maxSparse := 0
	for i := 60; i < 120; i++ {
		maxSparse = max(maxSparse, res.Bins.Counts[i])
	}
	assert.GreaterOrEqual(t, minDense, maxSparse)

	for i := 0; i < 60; i++ {
		for j := 60; j < 120; j++ {
			if res.Density[i] <= res.Density[j] {
				assert.GreaterOrEqual(t, res.Bins.Counts[i], res.Bins.Counts[j])
			}
		}
	}
}

func TestAdaptive_QuantizeDefaults(t *testing.T) {
	cloud := testutil.NewRNG(8).UniformCloud(300, -4, 4)
	norm, _ := normalize.NormalizeUnitSphere(cloud)

	res, err := DefaultAdaptive().Quantize(norm)
	require.NoError(t, err)

	require.Len(t, res.Vertices, len(norm))
	require.Len(t, res.Bins.Counts, len(norm))
	assert.True(t, res.Vertices.IsFinite())
	assert.Greater(t, res.MeanDensity, 0.0)
	for i, v := range norm {
		bins := res.Bins.Counts[i]
		assert.GreaterOrEqual(t, bins, DefaultMinBins)
		assert.LessOrEqual(t, bins, DefaultMaxBins)
		// round-to-nearest loses at most half a bin per axis
		for a := 0; a < vertex.Axes; a++ {
			e := math.Abs(vertex.Component(v, a) - vertex.Component(res.Vertices[i], a))
			assert.LessOrEqual(t, e, 0.5/float64(bins)+1e-12)
		}
	}
}

func TestAdaptive_DuplicatesStayFinite(t *testing.T) {
	s := make(vertex.Set, 0, 20)
	for i := 0; i < 10; i++ {
		s = append(s, vertex.Set{{X: 0.5, Y: 0.5, Z: 0.5}}...)
	}
	s = append(s, testutil.NewRNG(2).UniformCloud(10, -1, 1)...)

	res, err := DefaultAdaptive().Quantize(s)
	require.NoError(t, err)

	assert.True(t, res.Vertices.IsFinite())
	assert.Equal(t, DefaultMaxBins, res.Bins.Counts[0])
	assert.True(t, res.Bins.ClippedHigh.Contains(0))
}

func TestAdaptive_Errors(t *testing.T) {
	_, err := DefaultAdaptive().Quantize(vertex.Set{{}, {X: 1}})
	assert.ErrorIs(t, err, density.ErrInsufficientPoints)

	bad := DefaultAdaptive()
	bad.MinBins, bad.MaxBins = 512, 256
	_, err = bad.Quantize(vertex.Set{{}})
	assert.ErrorIs(t, err, ErrInvalidBins)

	bad = DefaultAdaptive()
	bad.K = 0
	assert.ErrorIs(t, bad.Validate(), density.ErrInvalidK)
}
