package neighbours

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// centroid is a bin centroid carrying its flattened bin index so that k-d
// tree results can be mapped back into the polar grid after the tree has
// reordered its backing slice.
type centroid struct {
	x, y float64
	bin  int
}

// Compare satisfies kdtree.Comparable. Dimensions are 0 = x, 1 = y.
func (c centroid) Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	q := o.(centroid)
	switch d {
	case 0:
		return c.x - q.x
	case 1:
		return c.y - q.y
	default:
		panic("illegal dimension")
	}
}

// Dims returns the number of dimensions to be considered.
func (c centroid) Dims() int { return 2 }

// Distance returns the squared Euclidean distance between c and o.
func (c centroid) Distance(o kdtree.Comparable) float64 {
	q := o.(centroid)
	dx := c.x - q.x
	dy := c.y - q.y
	return dx*dx + dy*dy
}

// centroids satisfies kdtree.Interface.
type centroids []centroid

func (p centroids) Index(i int) kdtree.Comparable         { return p[i] }
func (p centroids) Len() int                              { return len(p) }
func (p centroids) Pivot(d kdtree.Dim) int                { return plane{centroids: p, Dim: d}.Pivot() }
func (p centroids) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts centroids along one axis for tree partitioning.
type plane struct {
	kdtree.Dim
	centroids
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.centroids[i].x < p.centroids[j].x
	case 1:
		return p.centroids[i].y < p.centroids[j].y
	default:
		panic("illegal dimension")
	}
}

// Pivot uses median of medians rather than random sampling so that the same
// input always builds the same tree.
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.centroids = p.centroids[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.centroids[i], p.centroids[j] = p.centroids[j], p.centroids[i]
}

// buildTree copies the centroid coordinates into tree-owned storage and
// builds a static k-d tree over them.
func buildTree(x, y []float64) *kdtree.Tree {
	pts := make(centroids, len(x))
	for i := range x {
		pts[i] = centroid{x: x[i], y: y[i], bin: i}
	}
	return kdtree.New(pts, false)
}

// nearest returns the k nearest bins to (qx, qy) in ascending distance
// order as (squared distance, bin index) pairs.
func nearest(tree *kdtree.Tree, qx, qy float64, k int) (dist2 []float64, bins []int) {
	keep := kdtree.NewNKeeper(k)
	tree.NearestSet(keep, centroid{x: qx, y: qy, bin: -1})

	dist2 = make([]float64, 0, k)
	bins = make([]int, 0, k)
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		dist2 = append(dist2, c.Dist)
		bins = append(bins, c.Comparable.(centroid).bin)
	}
	return dist2, bins
}
