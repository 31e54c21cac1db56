package normalize

import (
	"math"
	"testing"

	"github.com/hupe1980/meshq/testutil"
	"github.com/hupe1980/meshq/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNormalizeMinMax_Range(t *testing.T) {
	cloud := testutil.NewRNG(4711).UniformCloud(200, -30, 70)

	norm, p := NormalizeMinMax(cloud)

	require.Len(t, norm, len(cloud))
	assert.Equal(t, MinMax, p.Strategy)
	for _, v := range norm {
		for a := 0; a < vertex.Axes; a++ {
			c := vertex.Component(v, a)
			assert.GreaterOrEqual(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
		}
	}
	lo, hi := norm.Bounds()
	assert.InDelta(t, 0.0, lo.X, 1e-15)
	assert.InDelta(t, 1.0, hi.Y, 1e-15)
}

func TestNormalizeMinMax_DegenerateAxis(t *testing.T) {
	flat := vertex.Set{
		{X: 0, Y: 3.5, Z: 1},
		{X: 2, Y: 3.5, Z: -1},
		{X: 5, Y: 3.5, Z: 4},
	}

	norm, p := NormalizeMinMax(flat)

	for _, v := range norm {
		assert.Equal(t, 0.0, v.Y)
		assert.False(t, math.IsNaN(v.Y))
	}
	assert.Equal(t, 1.0, p.Span().Y)

	back, err := p.Denormalize(norm)
	require.NoError(t, err)
	testutil.RequireSetInDelta(t, flat, back, 1e-12)
}

func TestNormalizeUnitSphere_Bounded(t *testing.T) {
	cloud := testutil.NewRNG(1).UniformCloud(300, 10, 20)

	norm, p := NormalizeUnitSphere(cloud)

	var maxNorm float64
	for _, v := range norm {
		maxNorm = math.Max(maxNorm, r3.Norm(v))
	}
	assert.InDelta(t, 1.0, maxNorm, 1e-12)
	assert.Greater(t, p.Scale, 0.0)
	c := norm.Centroid()
	assert.InDelta(t, 0.0, r3.Norm(c), 1e-12)
}

func TestNormalizeUnitSphere_SinglePoint(t *testing.T) {
	norm, p := NormalizeUnitSphere(vertex.Set{{X: 4, Y: 4, Z: 4}})

	assert.Equal(t, 1.0, p.Scale)
	assert.Equal(t, r3.Vec{}, norm[0])
}

func TestRoundTrip(t *testing.T) {
	cloud := testutil.NewRNG(99).UniformCloud(128, -1e3, 1e3)

	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			norm, p, err := Normalize(cloud, s)
			require.NoError(t, err)

			back, err := p.Denormalize(norm)
			require.NoError(t, err)
			testutil.RequireSetInDelta(t, cloud, back, 1e-9)
		})
	}
}

func TestNormalizeUnitSphere_RigidInvariance(t *testing.T) {
	cloud := testutil.NewRNG(7).UniformCloud(256, -3, 8)
	base, _ := NormalizeUnitSphere(cloud)

	motions := []vertex.Transform{
		vertex.Rotation("rot_30", r3.Vec{X: 1}, 30),
		vertex.Rotation("rot_60", r3.Vec{Y: 1}, 60),
		vertex.Rotation("rot_oblique", r3.Vec{X: 1, Y: -2, Z: 0.5}, 137),
	}
	for _, m := range motions {
		m.Translation = r3.Vec{X: 12, Y: -7, Z: 0.25}
		t.Run(m.Name, func(t *testing.T) {
			moved, _ := NormalizeUnitSphere(m.ApplySet(cloud))
			want := base.Map(m.Rotate)
			for i := range want {
				diff := r3.Norm(r3.Sub(want[i], moved[i]))
				assert.LessOrEqual(t, diff, 1e-9*math.Max(1, r3.Norm(want[i])), "vertex %d", i)
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	_, err := Params{Strategy: UnitSphere, Scale: 0}.Denormalize(vertex.Set{{}})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = Params{Strategy: UnitSphere, Scale: -2}.Denormalize(vertex.Set{{}})
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, _, err = Normalize(vertex.Set{{}}, Strategy(9))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want Strategy
	}{
		{"minmax", MinMax},
		{"MM", MinMax},
		{"unit-sphere", UnitSphere},
		{" us ", UnitSphere},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseStrategy("zscore")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	var s Strategy
	require.NoError(t, s.UnmarshalText([]byte("us")))
	assert.Equal(t, UnitSphere, s)
}
