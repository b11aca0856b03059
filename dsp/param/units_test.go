package param

import (
	"math"
	"testing"
)

// fastmath builds trade accuracy for speed in the dB conversions.
const gainTolerance = 1e-3

func TestDecibel(t *testing.T) {
	d, err := NewDecibel(-60, 12, 0, 0.01, 48000)
	if err != nil {
		t.Fatalf("NewDecibel: %v", err)
	}

	d.SetLinearGain(0.5)

	if got, want := d.Value(), 20*math.Log10(0.5); math.Abs(got-want) > gainTolerance {
		t.Fatalf("Value = %v dB, want %v", got, want)
	}

	if got := d.LinearGain(); math.Abs(got-0.5) > gainTolerance {
		t.Fatalf("LinearGain = %v, want 0.5", got)
	}

	d.SetLinearGain(0)

	if d.Value() != -60 {
		t.Fatalf("zero gain: Value = %v, want -60", d.Value())
	}

	d.SetValue(6)
	d.Snap()

	if got := d.NextLinearGain(); math.Abs(got-math.Pow(10, 0.3)) > gainTolerance {
		t.Fatalf("NextLinearGain = %v, want %v", got, math.Pow(10, 0.3))
	}
}

func TestFrequencyMidiNote(t *testing.T) {
	f, err := NewFrequency(20, 20000, 1000, 0.01, 48000)
	if err != nil {
		t.Fatalf("NewFrequency: %v", err)
	}

	tests := []struct {
		note, hz float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6255653005986},
	}

	for _, tt := range tests {
		f.SetMidiNote(tt.note)

		if got := f.Value(); math.Abs(got-tt.hz) > 1e-9 {
			t.Fatalf("note %v: %v Hz, want %v", tt.note, got, tt.hz)
		}

		if got := f.MidiNote(); math.Abs(got-tt.note) > 1e-9 {
			t.Fatalf("MidiNote = %v, want %v", got, tt.note)
		}
	}

	if _, err := NewFrequency(0, 100, 10, 0, 48000); err == nil {
		t.Fatal("zero minimum frequency should fail")
	}
}

func TestTimeTempoSync(t *testing.T) {
	tm, err := NewTime(0, 4, 0.1, 0.01, 48000)
	if err != nil {
		t.Fatalf("NewTime: %v", err)
	}

	if err := tm.SetBPM(120); err != nil {
		t.Fatalf("SetBPM: %v", err)
	}

	if got := tm.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("quarter at 120 BPM = %v s, want 0.5", got)
	}

	if err := tm.SetNoteValue(0.125); err != nil {
		t.Fatalf("SetNoteValue: %v", err)
	}

	if got := tm.Milliseconds(); math.Abs(got-250) > 1e-9 {
		t.Fatalf("eighth at 120 BPM = %v ms, want 250", got)
	}

	if tm.BPM() != 120 || tm.NoteValue() != 0.125 {
		t.Fatalf("BPM = %v, NoteValue = %v", tm.BPM(), tm.NoteValue())
	}

	if err := tm.SetBPM(0); err == nil {
		t.Fatal("SetBPM(0) should fail")
	}

	if err := tm.SetNoteValue(-1); err == nil {
		t.Fatal("SetNoteValue(-1) should fail")
	}

	tm.SetMilliseconds(15)

	if got := tm.Value(); math.Abs(got-0.015) > 1e-15 {
		t.Fatalf("SetMilliseconds(15): %v s", got)
	}

	tm.SetMilliseconds(1e6)

	if tm.Value() != 4 {
		t.Fatalf("SetMilliseconds clamps to max: got %v", tm.Value())
	}
}

func TestPercentage(t *testing.T) {
	p, err := NewPercentage(18, 0.01, 48000)
	if err != nil {
		t.Fatalf("NewPercentage: %v", err)
	}

	if p.Ratio() != 0.18 {
		t.Fatalf("Ratio = %v, want 0.18", p.Ratio())
	}

	p.SetRatio(0.35)
	p.Snap()

	if got := p.NextRatio(); math.Abs(got-0.35) > 1e-12 {
		t.Fatalf("NextRatio = %v, want 0.35", got)
	}

	p.SetRatio(0.9)

	if got := p.NextLatchedRatio(); math.Abs(got-0.35) > 1e-12 {
		t.Fatalf("NextLatchedRatio before Latch = %v, want 0.35", got)
	}

	p.SetRatio(3)

	if p.Value() != 100 {
		t.Fatalf("Value = %v, want 100", p.Value())
	}
}
