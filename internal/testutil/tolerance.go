package testutil

import (
	"math"
	"testing"
)

// RequireNearlyEqual fails t if got and want differ in length or if any
// element pair differs by more than eps.
func RequireNearlyEqual[T Sample](t *testing.T, got, want []T, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if diff := math.Abs(float64(got[i]) - float64(want[i])); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite[T Sample](t *testing.T, data []T) {
	t.Helper()

	for i, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxAbsDiff returns the largest absolute difference over the common length
// of a and b.
func MaxAbsDiff[T Sample](a, b []T) float64 {
	maxDiff := 0.0
	for i := range min(len(a), len(b)) {
		maxDiff = max(maxDiff, math.Abs(float64(a[i])-float64(b[i])))
	}

	return maxDiff
}

// RMS returns the root-mean-square level of data, or 0 for an empty slice.
func RMS[T Sample](data []T) float64 {
	if len(data) == 0 {
		return 0
	}

	var sum float64
	for _, v := range data {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum / float64(len(data)))
}
