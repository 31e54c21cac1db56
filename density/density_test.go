package density

import (
	"math"
	"testing"

	"github.com/hupe1980/meshq/testutil"
	"github.com/hupe1980/meshq/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestKNearest_MatchesBruteForce(t *testing.T) {
	cloud := testutil.NewRNG(4711).UniformCloud(400, -1, 1)

	want, err := BruteForce{}.KNearest(cloud, DefaultK)
	require.NoError(t, err)
	got, err := KDTree{}.KNearest(cloud, DefaultK)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		require.Len(t, got[i], DefaultK)
		assert.InDeltaSlice(t, want[i], got[i], 1e-12, "vertex %d", i)
	}
}

func TestKNearest_DoesNotReorderInput(t *testing.T) {
	cloud := testutil.NewRNG(3).UniformCloud(50, 0, 1)
	snapshot := cloud.Clone()

	_, err := KDTree{}.KNearest(cloud, 4)
	require.NoError(t, err)

	assert.Equal(t, snapshot, cloud)
}

func TestKNearest_Line(t *testing.T) {
	line := vertex.Set{{X: 0}, {X: 1}, {X: 3}, {X: 6}}

	for _, q := range []NeighborQuery{KDTree{}, BruteForce{}} {
		got, err := q.KNearest(line, 2)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3}, got[0])
		assert.Equal(t, []float64{1, 2}, got[1])
		assert.Equal(t, []float64{2, 3}, got[2])
		assert.Equal(t, []float64{3, 5}, got[3])
	}
}

func TestEstimate(t *testing.T) {
	line := vertex.Set{{X: 0}, {X: 1}, {X: 3}, {X: 6}}

	field, err := Estimate(line, 2)
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 1.5, 2.5, 4}, field)
	assert.Equal(t, 2.5, Mean(field))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestEstimate_DuplicatesGiveZero(t *testing.T) {
	dup := vertex.Set{{X: 1}, {X: 1}, {X: 1}, {X: 5}}

	field, err := Estimate(dup, 2)
	require.NoError(t, err)

	assert.Equal(t, 0.0, field[0])
	for _, d := range field {
		assert.False(t, math.IsNaN(d))
	}
}

func TestEstimate_DenseClusterIsDenser(t *testing.T) {
	cloud := testutil.NewRNG(11).DenseAndSparse(100, 100)

	field, err := Estimate(cloud, DefaultK)
	require.NoError(t, err)

	var dense, sparse float64
	for i, d := range field {
		if i < 100 {
			dense += d
		} else {
			sparse += d
		}
	}
	assert.Less(t, dense, sparse)
}

func TestEstimate_Errors(t *testing.T) {
	small := vertex.Set{{}, {X: 1}, {Y: 1}}

	_, err := Estimate(small, 3)
	require.ErrorIs(t, err, ErrInsufficientPoints)
	var ipe *InsufficientPointsError
	require.ErrorAs(t, err, &ipe)
	assert.Equal(t, 3, ipe.K)
	assert.Equal(t, 3, ipe.N)

	_, err = Estimate(small, 0)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = EstimateWith(BruteForce{}, small, 8)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestEstimate_RecomputedAfterMotion(t *testing.T) {
	cloud := testutil.NewRNG(5).UniformCloud(64, 0, 1)
	scaled := cloud.Map(func(v r3.Vec) r3.Vec { return r3.Scale(2, v) })

	a, err := Estimate(cloud, 4)
	require.NoError(t, err)
	b, err := Estimate(scaled, 4)
	require.NoError(t, err)

	for i := range a {
		assert.InDelta(t, 2*a[i], b[i], 1e-12)
	}
}
