// Package testutil provides shared test helpers.
package testutil

import (
	"math"
	"testing"
)

// DefaultTolerance is the absolute tolerance used by the float helpers when
// callers pass zero.
const DefaultTolerance = 1e-9

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// FloatNear reports whether got and want agree within tol. Two NaNs are
// considered equal.
func FloatNear(got, want, tol float64) bool {
	if tol == 0 {
		tol = DefaultTolerance
	}
	if math.IsNaN(got) || math.IsNaN(want) {
		return math.IsNaN(got) && math.IsNaN(want)
	}
	if math.IsInf(got, 0) || math.IsInf(want, 0) {
		return got == want
	}
	return math.Abs(got-want) <= tol
}

// AssertFloatNear fails the test if got is not within tol of want.
func AssertFloatNear(t testing.TB, got, want, tol float64) {
	t.Helper()
	if !FloatNear(got, want, tol) {
		t.Errorf("got %v, want %v (tol %g)", got, want, tol)
	}
}

// AssertFloatsNear compares two slices element-wise with FloatNear.
func AssertFloatsNear(t testing.TB, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("length = %d, want %d", len(got), len(want))
		return
	}
	for i := range got {
		if !FloatNear(got[i], want[i], tol) {
			t.Errorf("[%d] = %v, want %v (tol %g)", i, got[i], want[i], tol)
		}
	}
}
