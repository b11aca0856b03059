package reverb

import "github.com/cwbudde/algo-reverb/dsp/core"

// minDampingCoeff keeps full damping from muting a line outright.
const minDampingCoeff = 0.01

// Damping is a one-pole low-pass placed in each feedback branch:
//
//	state = c·x + (1−c)·state, c = 1 − amount
//
// Higher damping gives a smaller coefficient and a darker tail. DC passes at
// unity gain, so damping never shortens the low-frequency decay.
type Damping struct {
	coeff float64
	state float64
}

// NewDamping returns a damping filter for amount in [0, 1].
func NewDamping(amount float64) Damping {
	var d Damping
	d.SetDamping(amount)

	return d
}

// SetDamping sets the damping amount, clamped to [0, 1].
func (d *Damping) SetDamping(amount float64) {
	d.coeff = max(1-core.Clamp(amount, 0, 1), minDampingCoeff)
}

// Coefficient returns the low-pass coefficient in (0, 1].
func (d *Damping) Coefficient() float64 { return d.coeff }

// Process filters one sample.
func (d *Damping) Process(x float64) float64 {
	d.state = core.FlushDenormals(d.coeff*x + (1-d.coeff)*d.state)
	return d.state
}

// Clear zeroes the filter state.
func (d *Damping) Clear() { d.state = 0 }
