package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/meshq/mesh"
	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformCloud returns n points drawn uniformly from the box [lo, hi)^3.
func (r *RNG) UniformCloud(n int, lo, hi float64) vertex.Set {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := hi - lo
	out := make(vertex.Set, n)
	for i := range out {
		out[i] = r3.Vec{
			X: lo + r.rand.Float64()*span,
			Y: lo + r.rand.Float64()*span,
			Z: lo + r.rand.Float64()*span,
		}
	}
	return out
}

// GaussianCluster returns n points normally distributed around center.
func (r *RNG) GaussianCluster(n int, center r3.Vec, spread float64) vertex.Set {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(vertex.Set, n)
	for i := range out {
		out[i] = r3.Vec{
			X: center.X + r.rand.NormFloat64()*spread,
			Y: center.Y + r.rand.NormFloat64()*spread,
			Z: center.Z + r.rand.NormFloat64()*spread,
		}
	}
	return out
}

// DenseAndSparse returns a cloud made of a tight cluster of dense points
// followed by sparse points spread over a much larger box. The first dense
// indices belong to the cluster.
func (r *RNG) DenseAndSparse(dense, sparse int) vertex.Set {
	cluster := r.GaussianCluster(dense, r3.Vec{}, 0.01)
	spread := r.UniformCloud(sparse, 2, 10)
	return append(cluster, spread...)
}

// Cube returns the eight corners of the cube [-1,1]^3 and its 12 triangles.
func Cube() (vertex.Set, [][3]int) {
	verts := vertex.Set{
		{X: -1, Y: -1, Z: -1},
		{X: 1, Y: -1, Z: -1},
		{X: 1, Y: 1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
		{X: 1, Y: -1, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: -1, Y: 1, Z: 1},
	}
	faces := [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{2, 3, 7}, {2, 7, 6},
		{1, 2, 6}, {1, 6, 5},
		{0, 4, 7}, {0, 7, 3},
	}
	return verts, faces
}

// CubeMesh returns Cube as a mesh named "cube".
func CubeMesh() mesh.Mesh {
	verts, tris := Cube()
	faces := make([]mesh.Face, len(tris))
	for i, t := range tris {
		faces[i] = mesh.Face(t)
	}
	return mesh.Mesh{Name: "cube", Vertices: verts, Faces: faces}
}

// CubeOBJ renders Cube as Wavefront OBJ text with 1-based face indices.
func CubeOBJ() string {
	verts, faces := Cube()
	var sb strings.Builder
	sb.WriteString("# cube\n")
	for _, v := range verts {
		fmt.Fprintf(&sb, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, f := range faces {
		fmt.Fprintf(&sb, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1)
	}
	return sb.String()
}

// RequireSetInDelta fails the test if any coordinate of got differs from want
// by more than delta, or if the lengths differ.
func RequireSetInDelta(tb testing.TB, want, got vertex.Set, delta float64) {
	tb.Helper()
	if len(want) != len(got) {
		tb.Fatalf("length mismatch: want %d, got %d", len(want), len(got))
	}
	for i := range want {
		for a := 0; a < vertex.Axes; a++ {
			w, g := vertex.Component(want[i], a), vertex.Component(got[i], a)
			if math.Abs(w-g) > delta {
				tb.Fatalf("vertex %d axis %s: want %v, got %v (delta %v)", i, vertex.AxisNames[a], w, g, delta)
			}
		}
	}
}
