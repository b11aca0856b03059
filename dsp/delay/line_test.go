package delay

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-reverb/dsp/interp"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestNewValidation(t *testing.T) {
	for _, capacity := range []int{-1, 0, 1} {
		if _, err := New(capacity); err == nil {
			t.Fatalf("expected error for capacity=%d", capacity)
		}
	}

	if _, err := New(4, WithMode(interp.Hermite)); err == nil {
		t.Fatal("expected error for hermite line with capacity 4")
	}
}

func TestNewDefaults(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	if d.Cap() != 16 {
		t.Fatalf("Cap: got %d want 16", d.Cap())
	}

	if d.Mode() != interp.Linear {
		t.Fatalf("default mode: got %v want linear", d.Mode())
	}

	if d.Delay() != 1 {
		t.Fatalf("default delay: got %v want 1", d.Delay())
	}
}

func TestSetDelayClamps(t *testing.T) {
	d, err := New(10)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 1},
		{in: -5, want: 1},
		{in: 0.5, want: 1},
		{in: math.NaN(), want: 1},
		{in: 4.25, want: 4.25},
		{in: 9, want: 9},
		{in: 100, want: 9},
		{in: math.Inf(1), want: 9},
	}

	for _, tt := range tests {
		d.SetDelay(tt.in)
		if d.Delay() != tt.want {
			t.Fatalf("SetDelay(%v): got %v want %v", tt.in, d.Delay(), tt.want)
		}
	}
}

func TestProcessIntegerDelay(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	d.SetDelay(3)

	for i := range 20 {
		in := float64(i + 1)

		got := d.Process(in)

		want := 0.0
		if i >= 3 {
			want = float64(i - 2)
		}

		if got != want {
			t.Fatalf("sample %d: got %v want %v", i, got, want)
		}
	}
}

func TestProcessFullCapacityDelay(t *testing.T) {
	d, err := New(5)
	if err != nil {
		t.Fatal(err)
	}

	d.SetDelay(4)

	var out []float64
	for i := range 10 {
		out = append(out, d.Process(float64(i+1)))
	}

	want := []float64{0, 0, 0, 0, 1, 2, 3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v want %v", i, out[i], want[i])
		}
	}
}

func TestProcessLinearFraction(t *testing.T) {
	d, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	d.SetDelay(2.25)

	// Ramp input: the delayed value of a ramp is the ramp shifted by the delay.
	for i := range 12 {
		got := d.Process(float64(i))
		if i < 3 {
			continue
		}

		want := float64(i) - 2.25
		if !approxEqual(got, want, 1e-12) {
			t.Fatalf("sample %d: got %v want %v", i, got, want)
		}
	}
}

func TestPeekWriteMatchesProcess(t *testing.T) {
	a, _ := New(32)
	b, _ := New(32)

	for _, delay := range []float64{1, 1.5, 7.3, 31} {
		a.SetDelay(delay)
		b.SetDelay(delay)

		for i := range 100 {
			x := math.Sin(float64(i) * 0.37)

			want := a.Process(x)
			got := b.Peek()
			b.Write(x)

			if got != want {
				t.Fatalf("delay %v sample %d: peek %v process %v", delay, i, got, want)
			}
		}
	}
}

func TestHermiteOnRamp(t *testing.T) {
	d, err := New(16, WithMode(interp.Hermite))
	if err != nil {
		t.Fatal(err)
	}

	d.SetDelay(1)

	if d.Delay() != 2 {
		t.Fatalf("hermite minimum delay: got %v want 2", d.Delay())
	}

	d.SetDelay(3.5)

	for i := range 20 {
		got := d.Process(float64(i))
		if i < 6 {
			continue
		}

		if !approxEqual(got, float64(i)-3.5, 1e-12) {
			t.Fatalf("sample %d: got %v want %v", i, got, float64(i)-3.5)
		}
	}
}

func TestClear(t *testing.T) {
	d, _ := New(8)
	d.SetDelay(2)

	for i := range 5 {
		d.Process(float64(i + 1))
	}

	d.Clear()

	if d.Delay() != 2 {
		t.Fatalf("Clear changed delay: %v", d.Delay())
	}

	for i := range 8 {
		if got := d.Process(0); got != 0 {
			t.Fatalf("sample %d after clear: %v", i, got)
		}
	}
}
