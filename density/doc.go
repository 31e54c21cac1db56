// Package density estimates local point density from nearest-neighbor distances.
//
// The density of a vertex is the mean Euclidean distance to its k nearest other
// vertices: smaller means denser. Nearest-neighbor lookup is a capability
// (NeighborQuery) so the spatial index can be swapped without changing results:
//
//   - KDTree: gonum k-d tree, O(N log N) build, the default.
//   - BruteForce: exact O(N²) scan, useful for tiny sets and as a test oracle.
//
// Duplicate points yield a zero distance and may produce a density of 0; that is
// a valid value, not an error.
package density
