// Package testutil provides testing utilities for meshq.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random generator, synthetic point clouds with known
// density structure and a small closed mesh with known coordinates.
//
// # Random Point Clouds
//
//	rng := testutil.NewRNG(4711)
//	cloud := rng.UniformCloud(500, -5, 5)          // uniform in a box
//	blob := rng.GaussianCluster(200, center, 0.01) // tight cluster
//
// # Fixtures
//
//	verts, faces := testutil.Cube()  // corners (±1, ±1, ±1), 12 triangles
package testutil
