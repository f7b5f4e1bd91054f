// Package neighbours resolves, for a set of ground points, the nearest bins
// of a polar sensor grid and extracts data values at those bins.
//
// An Index is built once from the grid geometry and the query points; its
// Extract method can then be applied to any number of data arrays sharing
// that geometry (for example every scan of a radar time series) without
// rebuilding the spatial index.
//
// Tie order: bins at exactly equal distance from a query point are returned
// in the order the k-d tree yields them. The build is deterministic for
// identical inputs, but callers must not rely on tie order being the same
// across indices built from different inputs.
package neighbours

import (
	"fmt"
	"math"
	"slices"

	"github.com/banshee-data/rainverify/internal/ndarray"
	"github.com/banshee-data/rainverify/internal/polar"
)

// DefaultK is the neighbour count used when New is called with k == 0.
const DefaultK = 9

// Index holds the k nearest bins of every query point. It is immutable after
// construction and safe for concurrent use.
type Index struct {
	grid polar.Grid
	k    int

	binX, binY     []float64
	queryX, queryY []float64

	// distances and indices are (num query points, k), row i ascending by distance.
	distances [][]float64
	indices   [][]int
}

// New georeferences the grid with geo and builds an Index answering the k
// nearest bins for each (qx[i], qy[i]). k == 0 selects DefaultK.
func New(grid polar.Grid, site polar.Site, projection string, geo polar.Georeferencer, qx, qy []float64, k int) (*Index, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if geo == nil {
		return nil, fmt.Errorf("neighbours: nil georeferencer")
	}
	binX, binY, err := geo.PolarToPlanar(grid.Ranges, grid.Azimuths, site, projection)
	if err != nil {
		return nil, fmt.Errorf("georeference bin centroids: %w", err)
	}
	return NewFromCentroids(grid, binX, binY, qx, qy, k)
}

// NewFromCentroids builds an Index from bin centroids that have already been
// projected to planar coordinates, in the grid's row-major bin order.
func NewFromCentroids(grid polar.Grid, binX, binY, qx, qy []float64, k int) (*Index, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	nbins := grid.NumBins()
	if len(binX) != nbins {
		return nil, &ndarray.InvalidShapeError{What: "bin x centroid count", Expected: nbins, Actual: len(binX)}
	}
	if len(binY) != nbins {
		return nil, &ndarray.InvalidShapeError{What: "bin y centroid count", Expected: nbins, Actual: len(binY)}
	}
	if len(qx) != len(qy) {
		return nil, &ndarray.InvalidShapeError{What: "query y length", Expected: len(qx), Actual: len(qy)}
	}
	for _, c := range []struct {
		what string
		vs   []float64
	}{{"bin x", binX}, {"bin y", binY}, {"query x", qx}, {"query y", qy}} {
		if err := checkFinite(c.what, c.vs); err != nil {
			opsf("rejecting index input: %v", err)
			return nil, err
		}
	}
	if k == 0 {
		k = DefaultK
	}
	if k < 0 || k > nbins {
		opsf("rejecting k=%d for grid with %d bins", k, nbins)
		return nil, &ndarray.InvalidShapeError{What: "neighbour count k (bins available)", Expected: nbins, Actual: k}
	}

	idx := &Index{
		grid:   polar.NewGrid(grid.Ranges, grid.Azimuths),
		k:      k,
		binX:   slices.Clone(binX),
		binY:   slices.Clone(binY),
		queryX: slices.Clone(qx),
		queryY: slices.Clone(qy),
	}

	tree := buildTree(idx.binX, idx.binY)
	diagf("built k-d tree over %d bins (%d azimuths x %d ranges)", nbins, grid.NumAzimuths(), grid.NumRanges())

	idx.distances = make([][]float64, len(qx))
	idx.indices = make([][]int, len(qx))
	for i := range qx {
		dist2, bins := nearest(tree, qx[i], qy[i], k)
		if len(bins) != k {
			// NKeeper retains exactly k once the tree holds at least k points.
			return nil, fmt.Errorf("neighbours: query %d resolved %d of %d bins", i, len(bins), k)
		}
		d := make([]float64, k)
		for j, v := range dist2 {
			d[j] = math.Sqrt(v)
		}
		idx.distances[i] = d
		idx.indices[i] = bins
	}
	diagf("resolved %d query points with k=%d", len(qx), k)

	return idx, nil
}

// K returns the number of neighbours per query point.
func (x *Index) K() int { return x.k }

// Grid returns a copy of the polar geometry the index was built for.
func (x *Index) Grid() polar.Grid { return polar.NewGrid(x.grid.Ranges, x.grid.Azimuths) }

// NumQueryPoints returns the number of query points.
func (x *Index) NumQueryPoints() int { return len(x.queryX) }

// QueryPoints returns the query point coordinates.
func (x *Index) QueryPoints() (qx, qy []float64) {
	return slices.Clone(x.queryX), slices.Clone(x.queryY)
}

// Distances returns the (num query points, k) matrix of Euclidean distances,
// ascending within each row.
func (x *Index) Distances() [][]float64 {
	out := make([][]float64, len(x.distances))
	for i, row := range x.distances {
		out[i] = slices.Clone(row)
	}
	return out
}

// Indices returns the (num query points, k) matrix of flattened bin indices,
// aligned with Distances.
func (x *Index) Indices() [][]int {
	out := make([][]int, len(x.indices))
	for i, row := range x.indices {
		out[i] = slices.Clone(row)
	}
	return out
}

// BinCoordinates returns the planar centroid of every bin in row-major order.
func (x *Index) BinCoordinates() (bx, by []float64) {
	return slices.Clone(x.binX), slices.Clone(x.binY)
}

// BinCoordinatesAtQueryPoints returns the centroids of the bins selected for
// each query point; element [i][j] is the centroid of Indices()[i][j].
func (x *Index) BinCoordinatesAtQueryPoints() (bx, by [][]float64) {
	bx = make([][]float64, len(x.indices))
	by = make([][]float64, len(x.indices))
	for i, row := range x.indices {
		bx[i] = make([]float64, len(row))
		by[i] = make([]float64, len(row))
		for j, bin := range row {
			bx[i][j] = x.binX[bin]
			by[i][j] = x.binY[bin]
		}
	}
	return bx, by
}

// checkShape verifies that data's trailing two dimensions are (A, R).
func (x *Index) checkShape(shape []int) error {
	want := x.grid.Shape()
	if len(shape) < 2 {
		return &ndarray.ShapeMismatchError{
			Expected: want,
			Actual:   shape,
			Reason:   "data needs at least an azimuth and a range dimension",
		}
	}
	if !slices.Equal(shape[len(shape)-2:], want) {
		return &ndarray.ShapeMismatchError{
			Expected: want,
			Actual:   shape,
			Reason:   "trailing dimensions must be (azimuths, ranges)",
		}
	}
	return nil
}

// Extract gathers the neighbour values of every query point from data, an
// array of shape (..., A, R). The trailing two dimensions are flattened in
// row-major order and indexed with Indices(), giving an array of shape
// (..., num query points, k).
func (x *Index) Extract(data ndarray.Array) (ndarray.Array, error) {
	shape := data.Shape()
	if err := x.checkShape(shape); err != nil {
		return ndarray.Array{}, err
	}

	lead := shape[:len(shape)-2]
	nblocks := 1
	for _, d := range lead {
		nblocks *= d
	}
	npts := len(x.indices)
	flat, err := data.Reshape(nblocks, x.grid.NumBins())
	if err != nil {
		return ndarray.Array{}, err
	}

	out := make([]float64, 0, nblocks*npts*x.k)
	for b := 0; b < nblocks; b++ {
		block, err := flat.Block(b)
		if err != nil {
			return ndarray.Array{}, err
		}
		for _, row := range x.indices {
			for _, bin := range row {
				out = append(out, block[bin])
			}
		}
	}
	tracef("extracted %d blocks x %d points x %d neighbours", nblocks, npts, x.k)

	outShape := append(slices.Clone(lead), npts, x.k)
	return ndarray.New(outShape, out)
}

// ExtractFloats is Extract for a single scan supplied as a flat row-major
// slice of A*R values. It returns one row of k values per query point.
func (x *Index) ExtractFloats(scan []float64) ([][]float64, error) {
	if len(scan) != x.grid.NumBins() {
		return nil, &ndarray.ShapeMismatchError{
			Expected: []int{x.grid.NumBins()},
			Actual:   []int{len(scan)},
			Reason:   "flat scan length must equal azimuths*ranges",
		}
	}
	out := make([][]float64, len(x.indices))
	for i, row := range x.indices {
		out[i] = make([]float64, len(row))
		for j, bin := range row {
			out[i][j] = scan[bin]
		}
	}
	return out, nil
}
