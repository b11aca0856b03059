package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/interp"
)

// Line is a circular delay line with a fractional delay length.
//
// The read position is (write cursor − delay). A delay of 1 returns the
// sample written on the previous call.
type Line struct {
	buffer   []float64
	writePos int
	delay    float64
	mode     interp.Mode
}

// Option configures a Line.
type Option func(*Line)

// WithMode selects the fractional read kernel. The default is interp.Linear.
func WithMode(mode interp.Mode) Option {
	return func(d *Line) {
		d.mode = mode
	}
}

// New returns a delay line holding capacity samples.
func New(capacity int, opts ...Option) (*Line, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("delay capacity must be >= 2: %d", capacity)
	}

	d := &Line{
		buffer: make([]float64, capacity),
		mode:   interp.Linear,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	if d.mode == interp.Hermite && capacity < 5 {
		return nil, fmt.Errorf("delay capacity must be >= 5 for hermite reads: %d", capacity)
	}

	d.delay = d.minDelay()

	return d, nil
}

// Cap returns the buffer capacity in samples.
func (d *Line) Cap() int {
	return len(d.buffer)
}

// Mode returns the interpolation kernel.
func (d *Line) Mode() interp.Mode {
	return d.mode
}

// Delay returns the current (clamped) delay in samples.
func (d *Line) Delay() float64 {
	return d.delay
}

// SetDelay sets the delay in samples, clamped to [1, capacity−1]
// ([2, capacity−2] for Hermite reads). NaN selects the minimum.
func (d *Line) SetDelay(samples float64) {
	lo, hi := d.minDelay(), d.maxDelay()
	switch {
	case math.IsNaN(samples) || samples < lo:
		samples = lo
	case samples > hi:
		samples = hi
	}

	d.delay = samples
}

// Process writes x, reads the delayed sample and advances the cursor.
func (d *Line) Process(x float64) float64 {
	d.buffer[d.writePos] = x
	out := d.read()
	d.advance()

	return out
}

// Peek returns the sample Process would return for the next input, without
// writing. With linear reads, Peek followed by Write is equivalent to Process.
func (d *Line) Peek() float64 {
	return d.read()
}

// Write stores x at the cursor and advances it.
func (d *Line) Write(x float64) {
	d.buffer[d.writePos] = x
	d.advance()
}

// Clear zeroes the buffer and rewinds the cursor. The delay is kept.
func (d *Line) Clear() {
	clear(d.buffer)
	d.writePos = 0
}

func (d *Line) advance() {
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

func (d *Line) minDelay() float64 {
	if d.mode == interp.Hermite {
		return 2
	}

	return 1
}

func (d *Line) maxDelay() float64 {
	if d.mode == interp.Hermite {
		return float64(len(d.buffer) - 2)
	}

	return float64(len(d.buffer) - 1)
}

func (d *Line) read() float64 {
	size := len(d.buffer)

	pos := float64(d.writePos) - d.delay
	if pos < 0 {
		pos += float64(size)
	}

	i0 := int(pos)
	frac := pos - float64(i0)

	i1 := i0 + 1
	if i1 >= size {
		i1 = 0
	}

	if d.mode != interp.Hermite {
		return interp.LinearInterp(frac, d.buffer[i0], d.buffer[i1])
	}

	im1 := i0 - 1
	if im1 < 0 {
		im1 = size - 1
	}

	i2 := i1 + 1
	if i2 >= size {
		i2 = 0
	}

	return interp.Hermite4(frac, d.buffer[im1], d.buffer[i0], d.buffer[i1], d.buffer[i2])
}
