package ir

import "math"

const tailWindowMs = 10.0

// Envelope returns the RMS level in dB of consecutive windows of windowMs.
// The last window may be shorter. Silent windows report -200 dB.
func (a *Analyzer) Envelope(ir []float64, windowMs float64) ([]float64, error) {
	if err := a.check(ir); err != nil {
		return nil, err
	}

	if windowMs <= 0 {
		return nil, ErrInvalidTime
	}

	return envelope(ir, max(a.boundary(windowMs), 1)), nil
}

func envelope(ir []float64, window int) []float64 {
	out := make([]float64, (len(ir)+window-1)/window)

	for k := range out {
		seg := ir[k*window : min((k+1)*window, len(ir))]

		var e float64
		for _, v := range seg {
			e += v * v
		}

		if e <= 0 {
			out[k] = schroederFloorDB
			continue
		}

		out[k] = 10 * math.Log10(e/float64(len(seg)))
	}

	return out
}

// TailLength returns the time in seconds from the first sample to the end of
// the last 10 ms window whose RMS level is within thresholdDB (negative) of the
// loudest window.
func (a *Analyzer) TailLength(ir []float64, thresholdDB float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	return a.tailLength(ir, thresholdDB), nil
}

func (a *Analyzer) tailLength(ir []float64, thresholdDB float64) float64 {
	window := max(a.boundary(tailWindowMs), 1)
	env := envelope(ir, window)

	loudest := schroederFloorDB
	for _, v := range env {
		loudest = max(loudest, v)
	}

	limit := loudest - math.Abs(thresholdDB)
	for k := len(env) - 1; k >= 0; k-- {
		if env[k] >= limit {
			end := min((k+1)*window, len(ir))
			return float64(end) / a.SampleRate
		}
	}

	return 0
}
