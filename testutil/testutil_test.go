package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestUniformCloud(t *testing.T) {
	rng := NewRNG(4711)

	cloud := rng.UniformCloud(64, -2, 3)

	assert.Equal(t, 64, cloud.Len())
	for _, v := range cloud {
		assert.GreaterOrEqual(t, v.X, -2.0)
		assert.Less(t, v.Z, 3.0)
	}
}

func TestDeterministicSeed(t *testing.T) {
	a := NewRNG(7).GaussianCluster(16, r3.Vec{X: 1}, 0.5)
	b := NewRNG(7).GaussianCluster(16, r3.Vec{X: 1}, 0.5)

	assert.Equal(t, a, b)
}

func TestCube(t *testing.T) {
	verts, faces := Cube()

	assert.Len(t, verts, 8)
	assert.Len(t, faces, 12)
	for _, f := range faces {
		for _, idx := range f {
			assert.True(t, idx >= 0 && idx < 8)
		}
	}
	assert.Equal(t, 12, strings.Count(CubeOBJ(), "\nf "))
}
