package ir

import (
	"errors"
	"math"
)

// Errors returned by IR analysis functions.
var (
	ErrEmptyIR           = errors.New("ir: impulse response is empty")
	ErrInvalidSampleRate = errors.New("ir: sample rate must be positive")
	ErrInvalidTime       = errors.New("ir: time must be positive")
	ErrNoDecay           = errors.New("ir: insufficient decay for RT calculation")
	ErrInvalidFFTSize    = errors.New("ir: fft size must be a power of two >= 64")
	ErrShortIR           = errors.New("ir: impulse response shorter than one analysis frame")
)

// Metrics holds impulse response analysis results.
type Metrics struct {
	RT60       float64 // seconds, T30 or T20 extrapolation
	EDT        float64 // early decay time, 0 to -10 dB
	T20        float64 // -5 to -25 dB slope
	T30        float64 // -5 to -35 dB slope
	C50        float64 // dB
	C80        float64 // dB
	D50        float64 // ratio 0-1
	D80        float64 // ratio 0-1
	CenterTime float64 // seconds
	TailLength float64 // seconds after the peak until the envelope falls 60 dB
	PeakIndex  int
}

// Analyzer computes IR metrics at a fixed sample rate.
type Analyzer struct {
	SampleRate float64
}

// NewAnalyzer creates an IR analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate}
}

func (a *Analyzer) check(ir []float64) error {
	if len(ir) == 0 {
		return ErrEmptyIR
	}

	if a.SampleRate <= 0 || math.IsNaN(a.SampleRate) {
		return ErrInvalidSampleRate
	}

	return nil
}

// Analyze computes all metrics. Everything after the peak sample is analysed.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if err := a.check(ir); err != nil {
		return Metrics{}, err
	}

	peak := peakIndex(ir)
	tail := ir[peak:]
	curve := schroeder(tail)

	m := Metrics{
		PeakIndex:  peak,
		CenterTime: a.centerTime(tail),
		D50:        a.definition(tail, 50),
		D80:        a.definition(tail, 80),
		C50:        a.clarity(tail, 50),
		C80:        a.clarity(tail, 80),
		EDT:        a.DecayTime(curve, EDTRange),
		T20:        a.DecayTime(curve, T20Range),
		T30:        a.DecayTime(curve, T30Range),
		TailLength: a.tailLength(tail, -60),
	}

	m.RT60 = m.T30
	if m.RT60 == 0 {
		m.RT60 = m.T20
	}

	return m, nil
}

// FindImpulseStart returns the first sample whose magnitude reaches 10% of
// the peak, which trims leading silence or pre-delay.
func (a *Analyzer) FindImpulseStart(ir []float64) (int, error) {
	if len(ir) == 0 {
		return 0, ErrEmptyIR
	}

	threshold := 0.1 * math.Abs(ir[peakIndex(ir)])
	for i, v := range ir {
		if math.Abs(v) >= threshold {
			return i, nil
		}
	}

	return 0, nil
}

func peakIndex(ir []float64) int {
	idx, peak := 0, 0.0
	for i, v := range ir {
		if av := math.Abs(v); av > peak {
			idx, peak = i, av
		}
	}

	return idx
}
