package param

import (
	"fmt"
	"math"
)

// Decibel is a level parameter stored and smoothed in dB.
type Decibel struct {
	*Ranged
}

// NewDecibel returns a level parameter in [minDB, maxDB].
func NewDecibel(minDB, maxDB, initialDB, smoothingTime, sampleRate float64) (*Decibel, error) {
	r, err := NewRanged(minDB, maxDB, initialDB, smoothingTime, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Decibel{Ranged: r}, nil
}

// SetLinearGain publishes the level of a linear gain. Gains <= 0 map to the
// minimum.
func (d *Decibel) SetLinearGain(gain float64) {
	if gain <= 0 || math.IsNaN(gain) {
		d.SetValue(d.min)
		return
	}

	d.SetValue(gainToDB(gain))
}

// LinearGain returns the published level as a linear gain.
func (d *Decibel) LinearGain() float64 { return dbToGain(d.Value()) }

// NextLinearGain advances the smoother and returns the level as a linear
// gain.
func (d *Decibel) NextLinearGain() float64 { return dbToGain(d.Next()) }

// Frequency is a frequency parameter in Hz with logarithmic mapping.
type Frequency struct {
	*Ranged
}

// NewFrequency returns a frequency parameter in [minHz, maxHz]; minHz must be
// positive.
func NewFrequency(minHz, maxHz, initialHz, smoothingTime, sampleRate float64) (*Frequency, error) {
	r, err := NewExponential(minHz, maxHz, initialHz, smoothingTime, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Frequency{Ranged: r}, nil
}

// SetMidiNote publishes the equal-tempered frequency of note (A4 = 69 = 440 Hz).
func (f *Frequency) SetMidiNote(note float64) {
	f.SetValue(440 * math.Pow(2, (note-69)/12))
}

// MidiNote returns the published frequency as a fractional MIDI note.
func (f *Frequency) MidiNote() float64 {
	return 69 + 12*math.Log2(f.Value()/440)
}

// Time is a duration parameter stored in seconds, with tempo-synced setters.
type Time struct {
	*Ranged

	bpm       atomicFloat
	noteValue atomicFloat
}

const (
	defaultBPM       = 120.0
	defaultNoteValue = 0.25
)

// NewTime returns a duration parameter in [minSeconds, maxSeconds].
func NewTime(minSeconds, maxSeconds, initialSeconds, smoothingTime, sampleRate float64) (*Time, error) {
	r, err := NewRanged(minSeconds, maxSeconds, initialSeconds, smoothingTime, sampleRate)
	if err != nil {
		return nil, err
	}

	t := &Time{Ranged: r}
	t.bpm.Store(defaultBPM)
	t.noteValue.Store(defaultNoteValue)

	return t, nil
}

// SetMilliseconds publishes a duration in ms.
func (t *Time) SetMilliseconds(ms float64) { t.SetValue(ms / 1000) }

// Milliseconds returns the published duration in ms.
func (t *Time) Milliseconds() float64 { return t.Value() * 1000 }

// SetBPM sets the tempo and publishes the duration of the current note value
// at that tempo.
func (t *Time) SetBPM(bpm float64) error {
	if !(bpm > 0) || math.IsInf(bpm, 0) {
		return fmt.Errorf("param: tempo must be > 0: %f", bpm)
	}

	t.bpm.Store(bpm)
	t.syncToTempo()

	return nil
}

// BPM returns the tempo last set.
func (t *Time) BPM() float64 { return t.bpm.Load() }

// SetNoteValue sets the note length in whole notes (0.25 is a quarter note)
// and publishes its duration at the current tempo.
func (t *Time) SetNoteValue(wholeNotes float64) error {
	if !(wholeNotes > 0) || math.IsInf(wholeNotes, 0) {
		return fmt.Errorf("param: note value must be > 0: %f", wholeNotes)
	}

	t.noteValue.Store(wholeNotes)
	t.syncToTempo()

	return nil
}

// NoteValue returns the note length last set, in whole notes.
func (t *Time) NoteValue() float64 { return t.noteValue.Load() }

func (t *Time) syncToTempo() {
	t.SetValue(60 / t.bpm.Load() * 4 * t.noteValue.Load())
}

// Percentage is a [0, 100] parameter with ratio accessors.
type Percentage struct {
	*Ranged
}

// NewPercentage returns a percentage parameter.
func NewPercentage(initial, smoothingTime, sampleRate float64) (*Percentage, error) {
	r, err := NewRanged(0, 100, initial, smoothingTime, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Percentage{Ranged: r}, nil
}

// SetRatio publishes ratio·100.
func (p *Percentage) SetRatio(ratio float64) { p.SetValue(ratio * 100) }

// Ratio returns the published value as a fraction.
func (p *Percentage) Ratio() float64 { return p.Value() / 100 }

// NextRatio advances the smoother and returns the value as a fraction.
func (p *Percentage) NextRatio() float64 { return p.Next() / 100 }

// NextLatchedRatio advances towards the latched target and returns the value
// as a fraction.
func (p *Percentage) NextLatchedRatio() float64 { return p.NextLatched() / 100 }
