package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/dsp/filter/biquad"
)

func magDB(c biquad.Coefficients, f, sampleRate float64) float64 {
	return c.MagnitudeDB(f, sampleRate)
}

func TestButterworthCutoffIsMinus3dB(t *testing.T) {
	for _, sr := range []float64{44100, 48000, 96000} {
		for _, f := range []float64{50, 250, 1000, 8000} {
			lp := Lowpass(f, ButterworthQ, sr)
			hp := Highpass(f, ButterworthQ, sr)

			if got := magDB(lp, f, sr); math.Abs(got+3.0103) > 1e-3 {
				t.Fatalf("sr=%v f=%v: lowpass at cutoff = %v dB, want -3.01", sr, f, got)
			}

			if got := magDB(hp, f, sr); math.Abs(got+3.0103) > 1e-3 {
				t.Fatalf("sr=%v f=%v: highpass at cutoff = %v dB, want -3.01", sr, f, got)
			}
		}
	}
}

func TestResponseShape(t *testing.T) {
	const sr = 48000.0

	lp := Lowpass(1000, ButterworthQ, sr)
	hp := Highpass(1000, ButterworthQ, sr)

	tests := []struct {
		name    string
		c       biquad.Coefficients
		f       float64
		wantMin float64
		wantMax float64
	}{
		{"lowpass passband", lp, 50, -0.01, 0.01},
		{"lowpass stopband", lp, 10000, -1000, -38},
		{"highpass passband", hp, 15000, -0.05, 0.01},
		{"highpass stopband", hp, 100, -1000, -38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := magDB(tt.c, tt.f, sr)
			if got < tt.wantMin || got > tt.wantMax {
				t.Fatalf("%v Hz: %v dB, want in [%v, %v]", tt.f, got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestHighpassBlocksDC(t *testing.T) {
	hp := Highpass(200, ButterworthQ, 48000)

	if sum := hp.B0 + hp.B1 + hp.B2; math.Abs(sum) > 1e-15 {
		t.Fatalf("numerator at DC = %v, want 0", sum)
	}

	s := biquad.NewSection(hp)

	var y float64
	for range 48000 {
		y = s.ProcessSample(1)
	}

	if math.Abs(y) > 1e-9 {
		t.Fatalf("step response after 1 s = %v, want 0", y)
	}
}

func TestInvalidFrequencies(t *testing.T) {
	for _, f := range []float64{0, -1, 24000, 30000, math.NaN(), math.Inf(1)} {
		if c := Highpass(f, ButterworthQ, 48000); c != (biquad.Coefficients{}) {
			t.Fatalf("Highpass(%v) = %+v, want zero", f, c)
		}

		if c := Lowpass(f, ButterworthQ, 48000); c != (biquad.Coefficients{}) {
			t.Fatalf("Lowpass(%v) = %+v, want zero", f, c)
		}
	}

	if c := Lowpass(1000, ButterworthQ, 0); c != (biquad.Coefficients{}) {
		t.Fatalf("Lowpass at rate 0 = %+v, want zero", c)
	}
}

func TestNonPositiveQFallsBackToButterworth(t *testing.T) {
	if got, want := Highpass(300, 0, 48000), Highpass(300, ButterworthQ, 48000); got != want {
		t.Fatalf("q=0: %+v, want %+v", got, want)
	}
}
