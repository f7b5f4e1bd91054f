package ndarray

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name    string
		shape   []int
		data    []float64
		wantErr bool
	}{
		{"vector", []int{3}, []float64{1, 2, 3}, false},
		{"matrix", []int{2, 2}, []float64{1, 2, 3, 4}, false},
		{"stack", []int{2, 1, 2}, []float64{1, 2, 3, 4}, false},
		{"empty_axis", []int{0, 4}, nil, false},
		{"too_short", []int{2, 2}, []float64{1, 2, 3}, true},
		{"too_long", []int{1}, []float64{1, 2}, true},
		{"negative_dim", []int{-1, 2}, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(tc.shape, tc.data)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidShape) {
					t.Fatalf("expected ErrInvalidShape, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.shape, a.Shape()); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
			if a.Len() != len(tc.data) {
				t.Errorf("Len() = %d, want %d", a.Len(), len(tc.data))
			}
		})
	}
}

func TestAtRowMajor(t *testing.T) {
	a, err := New([]int{2, 3}, []float64{0, 1, 2, 10, 11, 12})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			v, err := a.At(i, j)
			if err != nil {
				t.Fatalf("At(%d,%d): %v", i, j, err)
			}
			if want := float64(10*i + j); v != want {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, v, want)
			}
		}
	}

	if _, err := a.At(2, 0); err == nil {
		t.Error("expected out-of-range error")
	}
	if _, err := a.At(0); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for wrong rank, got %v", err)
	}
}

func TestShapeIsCopied(t *testing.T) {
	shape := []int{2, 2}
	a, err := Zeros(shape...)
	if err != nil {
		t.Fatal(err)
	}
	shape[0] = 99
	got := a.Shape()
	got[1] = 42
	if diff := cmp.Diff([]int{2, 2}, a.Shape()); diff != "" {
		t.Errorf("shape was aliased (-want +got):\n%s", diff)
	}
}

func TestFromRows(t *testing.T) {
	a, err := FromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{3, 2}, a.Shape()); diff != "" {
		t.Errorf("shape (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 2, 3, 4, 5, 6}, a.Data()); diff != "" {
		t.Errorf("data (-want +got):\n%s", diff)
	}

	if _, err := FromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape for ragged rows, got %v", err)
	}
}

func TestStackAndBlock(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}, {3, 4}})
	b, _ := FromRows([][]float64{{5, 6}, {7, 8}})

	s, err := Stack(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{2, 2, 2}, s.Shape()); diff != "" {
		t.Errorf("shape (-want +got):\n%s", diff)
	}
	blk, err := s.Block(1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{5, 6, 7, 8}, blk); diff != "" {
		t.Errorf("block (-want +got):\n%s", diff)
	}
	if _, err := s.Block(2); err == nil {
		t.Error("expected out-of-range block error")
	}

	c, _ := FromRows([][]float64{{1, 2, 3}})
	if _, err := Stack(a, c); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
	if _, err := Stack(); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("expected ErrInvalidShape for empty stack, got %v", err)
	}
}

func TestReshape(t *testing.T) {
	a, _ := New([]int{6}, []float64{0, 1, 2, 3, 4, 5})
	r, err := a.Reshape(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := r.At(1, 0)
	if v != 3 {
		t.Errorf("At(1,0) = %v, want 3", v)
	}
	if _, err := a.Reshape(4, 2); err == nil {
		t.Error("expected error reshaping to a different size")
	}
}

func TestErrorMessages(t *testing.T) {
	err := error(&InvalidShapeError{What: "query y length", Expected: 3, Actual: 2})
	if got, want := err.Error(), "invalid shape: query y length: expected 3, got 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	var ise *InvalidShapeError
	if !errors.As(err, &ise) || ise.Actual != 2 {
		t.Errorf("errors.As failed: %v", err)
	}

	sm := &ShapeMismatchError{Expected: []int{2, 3}, Actual: []int{3, 2}, Reason: "trailing dimensions"}
	if got, want := sm.Error(), "shape mismatch: trailing dimensions: expected [2 3], got [3 2]"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
