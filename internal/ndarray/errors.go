package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape matches any *InvalidShapeError via errors.Is.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrShapeMismatch matches any *ShapeMismatchError via errors.Is.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// InvalidShapeError reports inconsistent lengths supplied at construction time,
// e.g. query x/y slices of different length or a neighbour count larger than
// the number of bins.
type InvalidShapeError struct {
	What     string
	Expected int
	Actual   int
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid shape: %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}

// Is lets errors.Is(err, ErrInvalidShape) match.
func (e *InvalidShapeError) Is(target error) bool { return target == ErrInvalidShape }

// ShapeMismatchError reports an array whose dimensions do not match the
// geometry it is applied to.
type ShapeMismatchError struct {
	Expected []int
	Actual   []int
	Reason   string
}

func (e *ShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("shape mismatch: %s: expected %v, got %v", e.Reason, e.Expected, e.Actual)
	}
	return fmt.Sprintf("shape mismatch: expected %v, got %v", e.Expected, e.Actual)
}

// Is lets errors.Is(err, ErrShapeMismatch) match.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }
