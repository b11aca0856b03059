package spatial

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/internal/testutil"
)

func TestCrossFeedDefaultsAreTransparent(t *testing.T) {
	c, err := NewCrossFeed()
	if err != nil {
		t.Fatalf("NewCrossFeed: %v", err)
	}

	if !c.IsTransparent() {
		t.Fatal("default crossfeed should be transparent")
	}

	l := testutil.Noise[float64](1, 1, 256)
	r := testutil.Noise[float64](2, 1, 256)
	wantL := append([]float64(nil), l...)
	wantR := append([]float64(nil), r...)

	if err := c.ProcessStereoInPlace(l, r); err != nil {
		t.Fatalf("ProcessStereoInPlace: %v", err)
	}

	testutil.RequireNearlyEqual(t, l, wantL, 0)
	testutil.RequireNearlyEqual(t, r, wantR, 0)
}

func TestCrossFeedFormula(t *testing.T) {
	tests := []struct {
		amount, width float64
		l, r          float64
		wantL, wantR  float64
	}{
		{0.5, 1, 1, 0, 0.75, 0.375},
		{1, 1, 1, -0.5, 0.25, 0.25},
		{0, 0, 1, 0, 0.5, 0.5},
		{0, 2, 1, 0, 1.5, -0.5},
		{0.5, 2, 1, 0, 0.9375, 0.1875},
	}

	for _, tt := range tests {
		c, err := NewCrossFeed(WithCrossFeedAmount(tt.amount), WithCrossFeedWidth(tt.width))
		if err != nil {
			t.Fatalf("NewCrossFeed: %v", err)
		}

		l, r := c.ProcessStereo(tt.l, tt.r)
		if math.Abs(l-tt.wantL) > 1e-12 || math.Abs(r-tt.wantR) > 1e-12 {
			t.Fatalf("amount=%v width=%v: got (%v, %v), want (%v, %v)",
				tt.amount, tt.width, l, r, tt.wantL, tt.wantR)
		}
	}
}

func TestCrossFeedMonoGainBound(t *testing.T) {
	c, err := NewCrossFeed()
	if err != nil {
		t.Fatalf("NewCrossFeed: %v", err)
	}

	peak := 0.0

	for i := 0; i <= 100; i++ {
		c.SetAmount(float64(i) / 100)

		l, r := c.ProcessStereo(1, 1)
		if l != r {
			t.Fatalf("mono input split: %v %v", l, r)
		}

		peak = max(peak, l)
	}

	if peak > 1.125+1e-12 {
		t.Fatalf("mono gain peaks at %v, want <= 1.125", peak)
	}
}

func TestCrossFeedNarrowsStereo(t *testing.T) {
	l := testutil.Noise[float64](3, 1, 4096)
	r := testutil.Noise[float64](4, 1, 4096)

	sideRMS := func(amount float64) float64 {
		c, err := NewCrossFeed(WithCrossFeedAmount(amount))
		if err != nil {
			t.Fatalf("NewCrossFeed: %v", err)
		}

		side := make([]float64, len(l))
		for i := range l {
			a, b := c.ProcessStereo(l[i], r[i])
			side[i] = a - b
		}

		return testutil.RMS(side)
	}

	s0, s5, s10 := sideRMS(0), sideRMS(0.5), sideRMS(1)
	if !(s0 > s5 && s5 > s10) || s10 > 1e-12 {
		t.Fatalf("side RMS should fall to zero: %v %v %v", s0, s5, s10)
	}
}

func TestCrossFeedClampsAndValidation(t *testing.T) {
	c, err := NewCrossFeed()
	if err != nil {
		t.Fatalf("NewCrossFeed: %v", err)
	}

	c.SetAmount(3)
	c.SetWidth(-1)

	if c.Amount() != 1 || c.Width() != 0 {
		t.Fatalf("Amount = %v, Width = %v", c.Amount(), c.Width())
	}

	if _, err := NewCrossFeed(WithCrossFeedAmount(-0.1)); err == nil {
		t.Fatal("negative amount should fail")
	}

	if _, err := NewCrossFeed(WithCrossFeedWidth(2.5)); err == nil {
		t.Fatal("width 2.5 should fail")
	}

	if _, err := NewCrossFeed(nil, WithCrossFeedWidth(math.NaN())); err == nil {
		t.Fatal("NaN width should fail")
	}

	if err := c.ProcessStereoInPlace(make([]float64, 3), make([]float64, 4)); err == nil {
		t.Fatal("length mismatch should fail")
	}
}

func TestCrossFeedPhaseInvert(t *testing.T) {
	tests := []struct {
		amount       float64
		l, r         float64
		wantL, wantR float64
	}{
		{0.5, 1, 0, 0.75, -0.375},
		{0.5, 0, 1, 0.375, 0.75},
		{1, 1, 1, 1, 0},
		{0, 1, 0.5, 1, 0.5},
	}

	for _, tt := range tests {
		c, err := NewCrossFeed(WithCrossFeedAmount(tt.amount), WithPhaseInvert(true))
		if err != nil {
			t.Fatalf("NewCrossFeed: %v", err)
		}

		if !c.PhaseInvert() {
			t.Fatal("PhaseInvert = false, want true")
		}

		l, r := c.ProcessStereo(tt.l, tt.r)
		if math.Abs(l-tt.wantL) > 1e-12 || math.Abs(r-tt.wantR) > 1e-12 {
			t.Fatalf("amount=%v (%v, %v): got (%v, %v), want (%v, %v)",
				tt.amount, tt.l, tt.r, l, r, tt.wantL, tt.wantR)
		}
	}

	c, err := NewCrossFeed(WithCrossFeedAmount(0.5))
	if err != nil {
		t.Fatalf("NewCrossFeed: %v", err)
	}

	c.SetPhaseInvert(true)
	if _, r := c.ProcessStereo(1, 0); r >= 0 {
		t.Fatalf("inverted crossfeed into right = %v, want negative", r)
	}

	c.SetPhaseInvert(false)
	if _, r := c.ProcessStereo(1, 0); r <= 0 {
		t.Fatalf("crossfeed into right = %v, want positive", r)
	}
}
