package param

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// ErrInvalidRange is returned when a range is empty or, for exponential
// mappings, not strictly positive.
var ErrInvalidRange = errors.New("param: invalid range")

// Ranged is a Smoother clamped to [Min, Max] with a normalized mapping.
type Ranged struct {
	*Smoother

	min, max float64
	log      bool
}

// NewRanged returns a linearly mapped parameter.
func NewRanged(minValue, maxValue, initial, smoothingTime, sampleRate float64) (*Ranged, error) {
	return newRanged(minValue, maxValue, initial, smoothingTime, sampleRate, false)
}

// NewExponential returns a parameter whose normalized position maps
// logarithmically, so equal steps give equal ratios. minValue must be > 0.
func NewExponential(minValue, maxValue, initial, smoothingTime, sampleRate float64) (*Ranged, error) {
	if minValue <= 0 {
		return nil, fmt.Errorf("%w: exponential minimum must be > 0: %f", ErrInvalidRange, minValue)
	}

	return newRanged(minValue, maxValue, initial, smoothingTime, sampleRate, true)
}

func newRanged(minValue, maxValue, initial, smoothingTime, sampleRate float64, log bool) (*Ranged, error) {
	if !(minValue < maxValue) || !core.IsFinite(minValue) || !core.IsFinite(maxValue) {
		return nil, fmt.Errorf("%w: [%f, %f]", ErrInvalidRange, minValue, maxValue)
	}

	s, err := NewSmoother(core.Clamp(initial, minValue, maxValue), smoothingTime, sampleRate)
	if err != nil {
		return nil, err
	}

	return &Ranged{Smoother: s, min: minValue, max: maxValue, log: log}, nil
}

// Min returns the lower bound.
func (r *Ranged) Min() float64 { return r.min }

// Max returns the upper bound.
func (r *Ranged) Max() float64 { return r.max }

// SetValue publishes v clamped to the range. NaN clamps to Min.
func (r *Ranged) SetValue(v float64) {
	r.SetTarget(core.Clamp(v, r.min, r.max))
}

// Value returns the published target.
func (r *Ranged) Value() float64 { return r.Target() }

// SetNormalized publishes the value at position n in [0, 1].
func (r *Ranged) SetNormalized(n float64) {
	r.SetValue(r.fromNormalized(core.Clamp(n, 0, 1)))
}

// Normalized returns the position of the published target in [0, 1].
func (r *Ranged) Normalized() float64 { return r.toNormalized(r.Target()) }

// CurrentNormalized returns the position of the smoothed value in [0, 1].
func (r *Ranged) CurrentNormalized() float64 { return r.toNormalized(r.Current()) }

func (r *Ranged) toNormalized(v float64) float64 {
	v = core.Clamp(v, r.min, r.max)
	if r.log {
		return math.Log(v/r.min) / math.Log(r.max/r.min)
	}

	return (v - r.min) / (r.max - r.min)
}

func (r *Ranged) fromNormalized(n float64) float64 {
	if r.log {
		return r.min * math.Pow(r.max/r.min, n)
	}

	return r.min + n*(r.max-r.min)
}
