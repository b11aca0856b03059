package ir

import (
	"errors"
	"math"
	"testing"
)

func TestEnvelopeSlope(t *testing.T) {
	sampleRate := 48000.0
	ir := makeExponentialDecay(sampleRate, 1.0, 2.0)

	env, err := NewAnalyzer(sampleRate).Envelope(ir, 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(env) != 200 {
		t.Fatalf("len(env) = %d, want 200", len(env))
	}

	// 60 dB per second is 0.6 dB per 10 ms window.
	for k := 1; k < len(env); k++ {
		if d := env[k-1] - env[k]; math.Abs(d-0.6) > 1e-4 {
			t.Fatalf("window %d drop = %.6f dB, want 0.6", k, d)
		}
	}
}

func TestEnvelopeSilence(t *testing.T) {
	env, err := NewAnalyzer(1000).Envelope(make([]float64, 25), 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(env) != 3 {
		t.Fatalf("len(env) = %d, want 3", len(env))
	}

	for i, v := range env {
		if v != schroederFloorDB {
			t.Fatalf("env[%d] = %v, want %v", i, v, schroederFloorDB)
		}
	}

	if _, err := NewAnalyzer(1000).Envelope([]float64{1}, 0); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("Envelope(window=0) = %v, want ErrInvalidTime", err)
	}
}

func TestTailLength(t *testing.T) {
	sampleRate := 48000.0
	ir := makeExponentialDecay(sampleRate, 2.0, 4.0)

	a := NewAnalyzer(sampleRate)

	for _, tt := range []struct {
		threshold float64
		want      float64
	}{
		{threshold: -60, want: 2.0},
		{threshold: -30, want: 1.0},
	} {
		got, err := a.TailLength(ir, tt.threshold)
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(got-tt.want) > 0.03 {
			t.Errorf("TailLength(%v dB) = %.3f, want ~%.1f", tt.threshold, got, tt.want)
		}
	}
}
