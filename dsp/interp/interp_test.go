package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestLinearInterp(t *testing.T) {
	if got := LinearInterp(0.25, 2, 4); got != 2.5 {
		t.Fatalf("LinearInterp got %v want 2.5", got)
	}

	if got := LinearInterp(0, 7, -3); got != 7 {
		t.Fatalf("LinearInterp at t=0 got %v want 7", got)
	}
}

func TestModeTaps(t *testing.T) {
	if Linear.Taps() != 2 || Hermite.Taps() != 4 {
		t.Fatalf("taps linear=%d hermite=%d", Linear.Taps(), Hermite.Taps())
	}

	if Mode(9).String() != "Mode(9)" {
		t.Fatalf("unexpected String(): %s", Mode(9))
	}
}
