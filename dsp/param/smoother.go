package param

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

const (
	// smoothingEpsilon is the distance below which the current value counts
	// as settled.
	smoothingEpsilon = 1e-6
	// snapEpsilon is the distance below which Next lands on the target.
	snapEpsilon = 1e-9
)

// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
var ErrInvalidSampleRate = errors.New("param: invalid sample rate")

// atomicFloat is a float64 stored as its IEEE-754 bits.
type atomicFloat struct {
	bits atomic.Uint64
}

func (a *atomicFloat) Load() float64 { return math.Float64frombits(a.bits.Load()) }

func (a *atomicFloat) Store(v float64) { a.bits.Store(math.Float64bits(v)) }

// Smoother is a one-pole parameter smoother with an atomic target.
//
// SetTarget and Target are safe from any goroutine. The remaining methods
// belong to the audio goroutine. Next and Skip follow the published target
// directly; a block-based caller instead calls Latch once per block and then
// NextLatched or SkipLatched, so every sample in the block sees one target.
type Smoother struct {
	target atomicFloat

	latched float64
	current float64

	smoothingTime float64
	sampleRate    float64
	coeff         float64
}

// NewSmoother returns a smoother settled at initial. smoothingTime is the
// time constant in seconds; zero or less disables smoothing.
func NewSmoother(initial, smoothingTime, sampleRate float64) (*Smoother, error) {
	s := &Smoother{smoothingTime: smoothingTime}
	if err := s.SetSampleRate(sampleRate); err != nil {
		return nil, err
	}

	s.ResetTo(initial)

	return s, nil
}

// SetTarget publishes a new target. NaN is ignored.
func (s *Smoother) SetTarget(v float64) {
	if math.IsNaN(v) {
		return
	}

	s.target.Store(v)
}

// Target returns the most recently published target.
func (s *Smoother) Target() float64 { return s.target.Load() }

// Latch loads the published target for the coming block and returns it.
func (s *Smoother) Latch() float64 {
	s.latched = s.target.Load()
	return s.latched
}

// Latched returns the target seen by the last Latch.
func (s *Smoother) Latched() float64 { return s.latched }

// Next latches the published target and advances one sample towards it.
func (s *Smoother) Next() float64 {
	s.Latch()
	return s.NextLatched()
}

// Skip latches the published target and advances n samples at once.
func (s *Smoother) Skip(n int) float64 {
	s.Latch()
	return s.SkipLatched(n)
}

// NextLatched advances one sample towards the target seen by the last Latch.
// Targets published since then are ignored until the next Latch.
func (s *Smoother) NextLatched() float64 {
	s.current += s.coeff * (s.latched - s.current)
	if math.Abs(s.latched-s.current) < snapEpsilon {
		s.current = s.latched
	}

	return s.current
}

// SkipLatched advances n samples towards the latched target. It matches n
// calls to NextLatched up to rounding.
func (s *Smoother) SkipLatched(n int) float64 {
	if n <= 0 {
		return s.current
	}

	s.current = s.latched + (s.current-s.latched)*math.Pow(1-s.coeff, float64(n))
	if math.Abs(s.latched-s.current) < snapEpsilon {
		s.current = s.latched
	}

	return s.current
}

// Current returns the smoothed value without advancing.
func (s *Smoother) Current() float64 { return s.current }

// IsSmoothing reports whether the current value is still away from the
// published target.
func (s *Smoother) IsSmoothing() bool {
	return math.Abs(s.current-s.target.Load()) > smoothingEpsilon
}

// Snap latches the target and jumps to it.
func (s *Smoother) Snap() {
	s.current = s.Latch()
}

// ResetTo sets the target and jumps to it.
func (s *Smoother) ResetTo(v float64) {
	s.SetTarget(v)
	s.Snap()
}

// SetSmoothingTime sets the time constant in seconds.
func (s *Smoother) SetSmoothingTime(seconds float64) {
	s.smoothingTime = seconds
	s.updateCoeff()
}

// SmoothingTime returns the time constant in seconds.
func (s *Smoother) SmoothingTime() float64 { return s.smoothingTime }

// SetSampleRate sets the rate Next is called at.
func (s *Smoother) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	s.sampleRate = sampleRate
	s.updateCoeff()

	return nil
}

// SampleRate returns the rate Next is called at.
func (s *Smoother) SampleRate() float64 { return s.sampleRate }

// Coefficient returns the per-sample step fraction in (0, 1].
func (s *Smoother) Coefficient() float64 { return s.coeff }

func (s *Smoother) updateCoeff() {
	if s.smoothingTime <= 0 || math.IsNaN(s.smoothingTime) {
		s.coeff = 1
		return
	}

	s.coeff = 1 - math.Exp(-1/(s.smoothingTime*s.sampleRate))
}
