// Package normalize maps raw vertex coordinates into a bounded canonical space
// and back.
//
// Two strategies are provided:
//
//   - MinMax: per-axis affine map into [0,1]. A flat axis (max == min) maps to 0.
//   - UnitSphere: subtract the centroid, divide by the largest centroid distance.
//     The result lies in the closed unit ball and is invariant under rigid motion
//     up to the rotation itself.
//
// Both return Params, which invert the mapping exactly:
//
//	norm, params := normalize.UnitSphere(verts)
//	back, err := params.Denormalize(norm)
package normalize
