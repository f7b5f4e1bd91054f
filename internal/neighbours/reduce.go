package neighbours

import "math"

// Nearest keeps the value of the closest bin (column 0) for each query point.
func Nearest(values [][]float64) []float64 {
	out := make([]float64, len(values))
	for i, row := range values {
		if len(row) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = row[0]
	}
	return out
}

// Mean averages the non-NaN neighbour values of each query point. A point
// whose neighbours are all NaN yields NaN.
func Mean(values [][]float64) []float64 {
	out := make([]float64, len(values))
	for i, row := range values {
		var sum float64
		var n int
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Reducer collapses the k neighbour values of each query point to one value.
type Reducer func(values [][]float64) []float64

// ReducerByName returns the reducer registered under name ("nearest" or "mean").
func ReducerByName(name string) (Reducer, bool) {
	switch name {
	case "nearest":
		return Nearest, true
	case "mean":
		return Mean, true
	default:
		return nil, false
	}
}
