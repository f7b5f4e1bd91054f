package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// rank assigns 1-based ranks to x, giving tied values the average of the
// ranks they span.
func rank(x []float64) []float64 {
	order := make([]int, len(x))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[order[a]] < x[order[b]] })

	ranks := make([]float64, len(x))
	for i := 0; i < len(order); {
		j := i + 1
		for j < len(order) && x[order[j]] == x[order[i]] {
			j++
		}
		// Positions i..j-1 share ranks i+1..j.
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}
	return ranks
}

// spearman is the Pearson correlation of the average-tie ranks of x and y.
func spearman(x, y []float64) float64 {
	return stat.Correlation(rank(x), rank(y), nil)
}
