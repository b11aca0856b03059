package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/delay"
)

const maxAllPassGain = 0.99

// AllPass is a Schroeder all-pass section built on one delay line:
//
//	w[n] = x[n] + g·w[n−D]
//	y[n] = w[n−D] − g·w[n]
//
// Its transfer function (−g + z^−D)/(1 − g·z^−D) has unit magnitude at all
// frequencies. The line is read once and written once per sample.
type AllPass struct {
	line *delay.Line
	gain float64
}

// NewAllPass returns an all-pass with room for delays up to capacity−1 samples.
func NewAllPass(capacity int, delaySamples, gain float64) (*AllPass, error) {
	line, err := delay.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("allpass: %w", err)
	}

	a := &AllPass{line: line}
	a.SetDelay(delaySamples)
	a.SetGain(gain)

	return a, nil
}

// SetGain sets the feedback/feedforward coefficient, clamped to ±0.99.
func (a *AllPass) SetGain(gain float64) {
	a.gain = core.Clamp(gain, -maxAllPassGain, maxAllPassGain)
}

// Gain returns the coefficient.
func (a *AllPass) Gain() float64 { return a.gain }

// SetDelay sets the loop delay in samples.
func (a *AllPass) SetDelay(samples float64) { a.line.SetDelay(samples) }

// Delay returns the loop delay in samples.
func (a *AllPass) Delay() float64 { return a.line.Delay() }

// Process filters one sample.
func (a *AllPass) Process(x float64) float64 {
	d := a.line.Peek()
	w := core.FlushDenormals(x + a.gain*d)
	a.line.Write(w)

	return d - a.gain*w
}

// Clear zeroes the internal delay line.
func (a *AllPass) Clear() { a.line.Clear() }

// diffuser is a series chain of all-pass sections.
type diffuser []*AllPass

func (c diffuser) process(x float64) float64 {
	for _, ap := range c {
		x = ap.Process(x)
	}

	return x
}

func (c diffuser) clear() {
	for _, ap := range c {
		ap.Clear()
	}
}
