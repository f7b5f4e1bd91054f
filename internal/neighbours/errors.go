package neighbours

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFiniteCoordinate matches any *NonFiniteCoordinateError via errors.Is.
var ErrNonFiniteCoordinate = errors.New("non-finite coordinate")

// NonFiniteCoordinateError reports a NaN or infinite query point or bin
// centroid coordinate.
type NonFiniteCoordinateError struct {
	What  string // "query x", "query y", "bin x" or "bin y"
	Index int
	Value float64
}

func (e *NonFiniteCoordinateError) Error() string {
	return fmt.Sprintf("non-finite coordinate: %s[%d] = %v", e.What, e.Index, e.Value)
}

// Is lets errors.Is(err, ErrNonFiniteCoordinate) match.
func (e *NonFiniteCoordinateError) Is(target error) bool { return target == ErrNonFiniteCoordinate }

func checkFinite(what string, vs []float64) error {
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NonFiniteCoordinateError{What: what, Index: i, Value: v}
		}
	}
	return nil
}
