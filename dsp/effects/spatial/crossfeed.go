package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

const (
	defaultCrossFeedAmount = 0.0
	defaultCrossFeedWidth  = 1.0

	minCrossFeedWidth = 0.0
	maxCrossFeedWidth = 2.0
)

// CrossFeedOption mutates crossfeed construction parameters.
type CrossFeedOption func(*crossFeedConfig) error

type crossFeedConfig struct {
	amount float64
	width  float64
	invert bool
}

// WithCrossFeedAmount sets the fraction of each channel fed into the other,
// in [0, 1].
func WithCrossFeedAmount(amount float64) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		if amount < 0 || amount > 1 || math.IsNaN(amount) {
			return fmt.Errorf("crossfeed amount must be in [0, 1]: %f", amount)
		}

		cfg.amount = amount

		return nil
	}
}

// WithCrossFeedWidth sets the side gain: 0 = mono, 1 = unchanged, 2 = twice
// as wide.
func WithCrossFeedWidth(width float64) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		if width < minCrossFeedWidth || width > maxCrossFeedWidth || math.IsNaN(width) {
			return fmt.Errorf("crossfeed width must be in [%g, %g]: %f",
				minCrossFeedWidth, maxCrossFeedWidth, width)
		}

		cfg.width = width

		return nil
	}
}

// WithPhaseInvert inverts the polarity of the left-to-right crossfeed path.
func WithPhaseInvert(invert bool) CrossFeedOption {
	return func(cfg *crossFeedConfig) error {
		cfg.invert = invert
		return nil
	}
}

// CrossFeed mixes a stereo pair towards or away from mono.
//
// With crossfeed amount a, each output channel is (1−a/2)·(own + a·other).
// At a = 1 both channels carry the same signal; the 1−a/2 factor keeps a
// mono source within +1 dB at any amount. With phase inversion the left
// signal enters the right channel with opposite polarity, (1−a/2)·(R − a·L),
// which widens instead of narrowing. The result is then mid/side
// encoded and the side component scaled by the width.
//
// The processor is stateless per sample, real-time safe, and not
// thread-safe.
type CrossFeed struct {
	amount float64
	width  float64
	invert bool
}

// NewCrossFeed creates a crossfeed stage. The defaults pass audio unchanged.
func NewCrossFeed(opts ...CrossFeedOption) (*CrossFeed, error) {
	cfg := crossFeedConfig{
		amount: defaultCrossFeedAmount,
		width:  defaultCrossFeedWidth,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &CrossFeed{amount: cfg.amount, width: cfg.width, invert: cfg.invert}, nil
}

// SetAmount sets the crossfeed amount, clamped to [0, 1].
func (c *CrossFeed) SetAmount(amount float64) {
	c.amount = core.Clamp(amount, 0, 1)
}

// Amount returns the crossfeed amount.
func (c *CrossFeed) Amount() float64 { return c.amount }

// SetWidth sets the side gain, clamped to [0, 2].
func (c *CrossFeed) SetWidth(width float64) {
	c.width = core.Clamp(width, minCrossFeedWidth, maxCrossFeedWidth)
}

// Width returns the side gain.
func (c *CrossFeed) Width() float64 { return c.width }

// SetPhaseInvert sets the polarity of the left-to-right crossfeed path.
func (c *CrossFeed) SetPhaseInvert(invert bool) { c.invert = invert }

// PhaseInvert reports whether the left-to-right path is inverted.
func (c *CrossFeed) PhaseInvert() bool { return c.invert }

// IsTransparent reports whether ProcessStereo is the identity.
func (c *CrossFeed) IsTransparent() bool {
	return c.amount == 0 && c.width == 1
}

// ProcessStereo processes one stereo frame.
func (c *CrossFeed) ProcessStereo(left, right float64) (float64, float64) {
	if c.amount > 0 {
		g := 1 - 0.5*c.amount

		toRight := c.amount * left
		if c.invert {
			toRight = -toRight
		}

		left, right = g*(left+c.amount*right), g*(right+toRight)
	}

	if c.width == 1 {
		return left, right
	}

	mid := (left + right) * 0.5
	side := (left - right) * 0.5 * c.width

	return mid + side, mid - side
}

// ProcessStereoInPlace processes paired buffers in place. Both buffers must
// have the same length.
func (c *CrossFeed) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("crossfeed: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	if c.IsTransparent() {
		return nil
	}

	for i := range left {
		left[i], right[i] = c.ProcessStereo(left[i], right[i])
	}

	return nil
}
