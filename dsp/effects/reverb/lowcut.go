package reverb

import (
	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/filter/biquad"
	"github.com/cwbudde/algo-reverb/dsp/filter/design"
)

// Low-frequency damping cutoff range.
const (
	lowCutMinHz   = 50.0
	lowCutRangeHz = 200.0
)

// LowCut is the low-frequency damping stage of a feedback branch: a
// second-order Butterworth high-pass at 50 + 200·amount Hz. Amount 0
// switches the stage off and it passes the signal unchanged.
type LowCut struct {
	section    biquad.Section
	amount     float64
	sampleRate float64
}

// NewLowCut returns a low-cut stage for amount in [0, 1] at sampleRate.
func NewLowCut(amount, sampleRate float64) LowCut {
	l := LowCut{sampleRate: sampleRate}
	l.SetAmount(amount)

	return l
}

// SetAmount sets the damping amount, clamped to [0, 1]. Turning the stage
// on from 0 starts it from silence.
func (l *LowCut) SetAmount(amount float64) {
	amount = core.Clamp(amount, 0, 1)
	if amount == l.amount {
		return
	}

	if l.amount == 0 {
		l.section.Reset()
	}

	l.amount = amount
	if amount > 0 {
		l.section.SetCoefficients(design.Highpass(l.Cutoff(), design.ButterworthQ, l.sampleRate))
	}
}

// Amount returns the damping amount in [0, 1].
func (l *LowCut) Amount() float64 { return l.amount }

// Cutoff returns the high-pass corner in Hz, or 0 when the stage is off.
func (l *LowCut) Cutoff() float64 {
	if l.amount == 0 {
		return 0
	}

	return lowCutMinHz + lowCutRangeHz*l.amount
}

// Process filters one sample.
func (l *LowCut) Process(x float64) float64 {
	if l.amount == 0 {
		return x
	}

	return l.section.ProcessSampleFlush(x)
}

// Clear zeroes the filter state.
func (l *LowCut) Clear() { l.section.Reset() }
