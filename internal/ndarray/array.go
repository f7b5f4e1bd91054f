// Package ndarray provides a minimal N-dimensional float64 array stored in
// row-major (C) order, plus the shape error kinds shared by the verification
// packages.
package ndarray

import (
	"fmt"
	"slices"
)

// Array is an N-dimensional array of float64 values in row-major order.
// The zero value is an empty 0-d array and is not useful on its own.
type Array struct {
	shape []int
	data  []float64
}

// New wraps data with the given shape. The data slice is used as-is, not
// copied; callers must not modify it afterwards.
func New(shape []int, data []float64) (Array, error) {
	n, err := size(shape)
	if err != nil {
		return Array{}, err
	}
	if len(data) != n {
		return Array{}, &InvalidShapeError{
			What:     fmt.Sprintf("data length for shape %v", shape),
			Expected: n,
			Actual:   len(data),
		}
	}
	return Array{shape: slices.Clone(shape), data: data}, nil
}

// Zeros allocates a zero-filled array of the given shape.
func Zeros(shape ...int) (Array, error) {
	n, err := size(shape)
	if err != nil {
		return Array{}, err
	}
	return Array{shape: slices.Clone(shape), data: make([]float64, n)}, nil
}

// FromRows builds a 2-D array from equal-length rows.
func FromRows(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return Zeros(0, 0)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Array{}, &InvalidShapeError{
				What:     fmt.Sprintf("length of row %d", i),
				Expected: cols,
				Actual:   len(r),
			}
		}
		data = append(data, r...)
	}
	return Array{shape: []int{len(rows), cols}, data: data}, nil
}

// Stack joins equally shaped arrays along a new leading axis.
func Stack(arrays ...Array) (Array, error) {
	if len(arrays) == 0 {
		return Array{}, &InvalidShapeError{What: "number of stacked arrays", Expected: 1, Actual: 0}
	}
	inner := arrays[0].shape
	data := make([]float64, 0, len(arrays)*len(arrays[0].data))
	for _, a := range arrays {
		if !slices.Equal(a.shape, inner) {
			return Array{}, &ShapeMismatchError{Expected: inner, Actual: a.Shape(), Reason: "stack"}
		}
		data = append(data, a.data...)
	}
	shape := append([]int{len(arrays)}, inner...)
	return Array{shape: shape, data: data}, nil
}

func size(shape []int) (int, error) {
	n := 1
	for i, d := range shape {
		if d < 0 {
			return 0, &InvalidShapeError{What: fmt.Sprintf("dimension %d", i), Expected: 0, Actual: d}
		}
		n *= d
	}
	return n, nil
}

// Shape returns a copy of the array dimensions.
func (a Array) Shape() []int { return slices.Clone(a.shape) }

// NDim returns the number of dimensions.
func (a Array) NDim() int { return len(a.shape) }

// Len returns the total number of elements.
func (a Array) Len() int { return len(a.data) }

// Data returns a copy of the underlying row-major values.
func (a Array) Data() []float64 { return slices.Clone(a.data) }

// offset converts a multi-index into a flat row-major offset.
func (a Array) offset(idx []int) (int, error) {
	if len(idx) != len(a.shape) {
		return 0, &ShapeMismatchError{
			Expected: a.Shape(),
			Actual:   slices.Clone(idx),
			Reason:   "index rank",
		}
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			return 0, fmt.Errorf("index %d out of range for axis %d with size %d", v, i, a.shape[i])
		}
		off = off*a.shape[i] + v
	}
	return off, nil
}

// At returns the element at the given multi-index.
func (a Array) At(idx ...int) (float64, error) {
	off, err := a.offset(idx)
	if err != nil {
		return 0, err
	}
	return a.data[off], nil
}

// Reshape returns an array sharing the same data with a new shape of equal size.
func (a Array) Reshape(shape ...int) (Array, error) {
	return New(shape, a.data)
}

// Block returns the values of the i-th slab along the leading axis as a flat
// slice (a view, not a copy). It is the fast path used when iterating over
// time steps of a (T, ...) stack.
func (a Array) Block(i int) ([]float64, error) {
	if len(a.shape) == 0 {
		return nil, &ShapeMismatchError{Expected: []int{1}, Actual: nil, Reason: "block of 0-d array"}
	}
	if i < 0 || i >= a.shape[0] {
		return nil, fmt.Errorf("block %d out of range for leading axis with size %d", i, a.shape[0])
	}
	n := 1
	for _, d := range a.shape[1:] {
		n *= d
	}
	return a.data[i*n : (i+1)*n], nil
}
