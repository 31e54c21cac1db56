// Package vertex defines the ordered 3D point sequence that every stage of the
// pipeline consumes and produces.
//
// A Set is indexed exactly like the mesh it was loaded from: the face list of the
// mesh refers to vertices by position, so no stage may reorder, drop or
// deduplicate points. Stages never mutate their input; they return a new Set.
//
//	s := vertex.Set{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 2, Z: 3}}
//	moved := vertex.Translation("shift", r3.Vec{X: 0.3}).ApplySet(s)
package vertex
