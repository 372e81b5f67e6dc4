package testutil

import (
	"math"
	"testing"
)

func TestRequireSliceNearlyEqualPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2, 3}, []float64{1 + 1e-12, 2, 3 - 1e-12}, 1e-10)
}

func TestRequireSliceEqualPass(t *testing.T) {
	RequireSliceEqual(t, []float64{0.1, -0.5}, []float64{0.1, -0.5})
}

func TestRequireFinitePass(t *testing.T) {
	RequireFinite(t, []float64{0, -1, 1e300})
}

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d-1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
