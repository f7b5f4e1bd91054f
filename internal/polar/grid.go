// Package polar describes polar sensor geometry: the range/azimuth grid of a
// radar sweep, the explicit mapping between (azimuth, range) bin pairs and
// their flattened row-major index, and the georeferencing collaborator that
// turns bins into planar centroid coordinates.
package polar

import (
	"fmt"

	"github.com/banshee-data/rainverify/internal/ndarray"
)

// Grid is the geometry of one polar sweep. Bins are ordered azimuth-major,
// range-minor: the flattened index of (azI, rangeI) is azI*len(Ranges)+rangeI.
type Grid struct {
	Ranges   []float64 // range gate distances (m), length R
	Azimuths []float64 // azimuth angles (degrees clockwise from north), length A
}

// NewGrid copies ranges and azimuths into a Grid.
func NewGrid(ranges, azimuths []float64) Grid {
	return Grid{
		Ranges:   append([]float64(nil), ranges...),
		Azimuths: append([]float64(nil), azimuths...),
	}
}

// NumRanges returns R.
func (g Grid) NumRanges() int { return len(g.Ranges) }

// NumAzimuths returns A.
func (g Grid) NumAzimuths() int { return len(g.Azimuths) }

// NumBins returns A*R.
func (g Grid) NumBins() int { return len(g.Azimuths) * len(g.Ranges) }

// Shape returns the (A, R) shape a data array must have in its trailing two
// dimensions to be aligned with this grid.
func (g Grid) Shape() []int { return []int{len(g.Azimuths), len(g.Ranges)} }

// Validate checks the grid has at least one bin.
func (g Grid) Validate() error {
	if len(g.Ranges) == 0 {
		return &ndarray.InvalidShapeError{What: "number of ranges", Expected: 1, Actual: 0}
	}
	if len(g.Azimuths) == 0 {
		return &ndarray.InvalidShapeError{What: "number of azimuths", Expected: 1, Actual: 0}
	}
	return nil
}

// BinIndex maps an (azimuth, range) index pair to its flattened bin index.
func (g Grid) BinIndex(azI, rangeI int) (int, error) {
	if azI < 0 || azI >= len(g.Azimuths) {
		return 0, fmt.Errorf("azimuth index %d out of range [0, %d)", azI, len(g.Azimuths))
	}
	if rangeI < 0 || rangeI >= len(g.Ranges) {
		return 0, fmt.Errorf("range index %d out of range [0, %d)", rangeI, len(g.Ranges))
	}
	return azI*len(g.Ranges) + rangeI, nil
}

// BinAt is the inverse of BinIndex.
func (g Grid) BinAt(index int) (azI, rangeI int, err error) {
	n := g.NumBins()
	if index < 0 || index >= n {
		return 0, 0, fmt.Errorf("bin index %d out of range [0, %d)", index, n)
	}
	r := len(g.Ranges)
	return index / r, index % r, nil
}

// BinPolar returns the range and azimuth of a flattened bin index.
func (g Grid) BinPolar(index int) (rng, az float64, err error) {
	azI, rangeI, err := g.BinAt(index)
	if err != nil {
		return 0, 0, err
	}
	return g.Ranges[rangeI], g.Azimuths[azI], nil
}

// UniformRanges returns count gate distances starting at start, spaced step apart.
func UniformRanges(start, step float64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// UniformAzimuths returns count azimuths evenly spaced over a full circle,
// starting at 0 degrees.
func UniformAzimuths(count int) []float64 {
	out := make([]float64, count)
	if count == 0 {
		return out
	}
	step := 360.0 / float64(count)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}
