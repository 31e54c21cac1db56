package density

import (
	"math"
	"sort"

	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// NeighborQuery returns, for every vertex of s, the distances to its k nearest
// other vertices in ascending order. The outer slice is indexed like s.
type NeighborQuery interface {
	KNearest(s vertex.Set, k int) ([][]float64, error)
}

// Default is the NeighborQuery used by Estimate.
var Default NeighborQuery = KDTree{}

// KDTree answers neighbor queries with a gonum k-d tree.
type KDTree struct{}

// KNearest implements NeighborQuery.
func (KDTree) KNearest(s vertex.Set, k int) ([][]float64, error) {
	if err := checkK(len(s), k); err != nil {
		return nil, err
	}

	// kdtree.New partitions its input in place, so the tree gets its own copy
	// and queries walk s in the original order.
	pts := make(kdtree.Points, len(s))
	for i, v := range s {
		pts[i] = point(v)
	}
	tree := kdtree.New(pts, false)

	out := make([][]float64, len(s))
	for i, v := range s {
		keep := kdtree.NewNKeeper(k + 1)
		tree.NearestSet(keep, point(v))

		dists := make([]float64, 0, k+1)
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			dists = append(dists, math.Sqrt(c.Dist))
		}
		out[i] = dropSelf(dists, k)
	}
	return out, nil
}

// BruteForce answers neighbor queries with an exhaustive scan.
type BruteForce struct{}

// KNearest implements NeighborQuery.
func (BruteForce) KNearest(s vertex.Set, k int) ([][]float64, error) {
	if err := checkK(len(s), k); err != nil {
		return nil, err
	}

	out := make([][]float64, len(s))
	dists := make([]float64, 0, len(s)-1)
	for i, v := range s {
		dists = dists[:0]
		for j, w := range s {
			if i == j {
				continue
			}
			dists = append(dists, r3.Norm(r3.Sub(v, w)))
		}
		sort.Float64s(dists)
		nearest := make([]float64, k)
		copy(nearest, dists[:k])
		out[i] = nearest
	}
	return out, nil
}

func point(v r3.Vec) kdtree.Point {
	return kdtree.Point{v.X, v.Y, v.Z}
}

// dropSelf sorts the k+1 nearest distances of a vertex and removes one zero
// distance, which stands for the vertex itself.
func dropSelf(dists []float64, k int) []float64 {
	sort.Float64s(dists)
	if len(dists) > 0 {
		dists = dists[1:]
	}
	if len(dists) > k {
		dists = dists[:k]
	}
	return dists
}
