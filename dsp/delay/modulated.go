package delay

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Modulated is a delay line whose length is swept by a sine LFO:
//
//	delay = base + depth·sin(phase), phase += 2π·rate/sampleRate
//
// The phase is kept in [0, 2π).
type Modulated struct {
	line       *Line
	sampleRate float64

	baseDelay float64
	depth     float64
	rate      float64

	phase    float64
	phaseInc float64
}

// NewModulated returns a modulated delay with the given buffer capacity.
func NewModulated(capacity int, sampleRate float64, opts ...Option) (*Modulated, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("modulated delay sample rate must be > 0: %f", sampleRate)
	}

	line, err := New(capacity, opts...)
	if err != nil {
		return nil, err
	}

	m := &Modulated{
		line:       line,
		sampleRate: sampleRate,
		baseDelay:  line.Delay(),
	}

	return m, nil
}

// SetBaseDelay sets the centre delay in samples.
func (m *Modulated) SetBaseDelay(samples float64) {
	m.line.SetDelay(samples)
	m.baseDelay = m.line.Delay()
}

// BaseDelay returns the centre delay in samples.
func (m *Modulated) BaseDelay() float64 {
	return m.baseDelay
}

// SetModulation sets the sweep depth in samples and the LFO rate in Hz.
// Negative or NaN values are treated as zero.
func (m *Modulated) SetModulation(depth, rate float64) {
	if !(depth > 0) {
		depth = 0
	}

	if !(rate > 0) {
		rate = 0
	}

	m.depth = depth
	m.rate = rate
	m.phaseInc = twoPi * rate / m.sampleRate
}

// Depth returns the sweep depth in samples.
func (m *Modulated) Depth() float64 {
	return m.depth
}

// Rate returns the LFO rate in Hz.
func (m *Modulated) Rate() float64 {
	return m.rate
}

// Phase returns the LFO phase in radians.
func (m *Modulated) Phase() float64 {
	return m.phase
}

// SetSampleRate updates the rate used to derive the phase increment.
func (m *Modulated) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("modulated delay sample rate must be > 0: %f", sampleRate)
	}

	m.sampleRate = sampleRate
	m.SetModulation(m.depth, m.rate)

	return nil
}

// CurrentDelay returns the delay applied on the most recent Process call.
func (m *Modulated) CurrentDelay() float64 {
	return m.line.Delay()
}

// Process runs one sample through the swept line.
func (m *Modulated) Process(x float64) float64 {
	m.line.SetDelay(m.baseDelay + m.depth*math.Sin(m.phase))
	out := m.line.Process(x)

	m.phase += m.phaseInc
	if m.phase >= twoPi {
		m.phase = math.Mod(m.phase, twoPi)
	}

	return out
}

// ProcessInPlace applies Process to every sample of buf.
func (m *Modulated) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = m.Process(x)
	}
}

// Clear zeroes the buffer and restarts the LFO.
func (m *Modulated) Clear() {
	m.line.Clear()
	m.phase = 0
}
