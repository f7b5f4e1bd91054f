// Package validity selects the positions of a sample that may take part in a
// comparison: values that are finite (neither NaN nor infinite) and, when a
// threshold is given, not below it.
package validity

import "math"

// Min returns a pointer to v for use as the optional threshold argument.
func Min(v float64) *float64 { return &v }

// Indices returns the ascending positions of x holding valid values. A value
// is valid if it is finite and, when minval is non-nil, is >= *minval.
func Indices(x []float64, minval *float64) []int {
	out := make([]int, 0, len(x))
	for i, v := range x {
		if valid(v, minval) {
			out = append(out, i)
		}
	}
	return out
}

// Common returns the ascending positions valid in both a and b. Positions
// beyond the shorter slice are never valid.
func Common(a, b []float64, minval *float64) []int {
	n := min(len(a), len(b))
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if valid(a[i], minval) && valid(b[i], minval) {
			out = append(out, i)
		}
	}
	return out
}

// Intersect returns the sorted, deduplicated intersection of two ascending
// index sets, as produced by Indices.
func Intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			if len(out) == 0 || out[len(out)-1] != a[i] {
				out = append(out, a[i])
			}
			i++
			j++
		}
	}
	return out
}

// Take returns x at the given positions.
func Take(x []float64, ix []int) []float64 {
	out := make([]float64, len(ix))
	for k, i := range ix {
		out[k] = x[i]
	}
	return out
}

func valid(v float64, minval *float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return minval == nil || v >= *minval
}
