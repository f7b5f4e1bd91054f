package neighbours

import (
	"math"
	"testing"

	"github.com/banshee-data/rainverify/internal/testutil"
)

func TestNearest(t *testing.T) {
	got := Nearest([][]float64{{1, 2, 3}, {4}, {}})
	testutil.AssertFloatsNear(t, got, []float64{1, 4, math.NaN()}, 0)
}

func TestMean(t *testing.T) {
	nan := math.NaN()
	testCases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"all_valid", []float64{1, 2, 3}, 2},
		{"skips_nan", []float64{nan, 2, 4}, 3},
		{"all_nan", []float64{nan, nan}, nan},
		{"empty", nil, nan},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testutil.AssertFloatNear(t, Mean([][]float64{tc.in})[0], tc.want, 0)
		})
	}
}

func TestReducerByName(t *testing.T) {
	for _, name := range []string{"nearest", "mean"} {
		if _, ok := ReducerByName(name); !ok {
			t.Errorf("ReducerByName(%q) not found", name)
		}
	}
	if _, ok := ReducerByName("median"); ok {
		t.Error("ReducerByName(\"median\") unexpectedly found")
	}
}
