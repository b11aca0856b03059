package ir

import "math"

// schroederFloorDB is reported once the remaining energy is exactly zero.
const schroederFloorDB = -200.0

// DecayRange is a level window on a decay curve used for slope fitting.
type DecayRange struct {
	StartDB float64
	EndDB   float64
}

// Standard ISO 3382 evaluation ranges.
var (
	EDTRange = DecayRange{StartDB: 0, EndDB: -10}
	T20Range = DecayRange{StartDB: -5, EndDB: -25}
	T30Range = DecayRange{StartDB: -5, EndDB: -35}
)

// SchroederIntegral returns the backward-integrated energy decay in dB,
// normalised to 0 dB at the first sample:
//
//	S(t) = 10·log10( ∫ₜ^∞ h²(τ)dτ / ∫₀^∞ h²(τ)dτ )
func (a *Analyzer) SchroederIntegral(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	return schroeder(ir), nil
}

func schroeder(ir []float64) []float64 {
	out := make([]float64, len(ir))

	var sum float64
	for i := len(ir) - 1; i >= 0; i-- {
		sum += ir[i] * ir[i]
		out[i] = sum
	}

	toDB(out)

	return out
}

// toDB converts a backward-integrated energy curve to dB relative to its
// first element, in place.
func toDB(curve []float64) {
	if len(curve) == 0 {
		return
	}

	total := curve[0]
	for i, e := range curve {
		if total <= 0 || e <= 0 {
			curve[i] = schroederFloorDB
			continue
		}

		curve[i] = 10 * math.Log10(e/total)
	}
}

// DecayTime fits a line to curve (dB per sample) between r.StartDB and
// r.EndDB and extrapolates it to a 60 dB decay in seconds. It returns 0 when
// the curve never spans the range.
func (a *Analyzer) DecayTime(curve []float64, r DecayRange) float64 {
	slope := fitRange(curve, r)
	if slope >= 0 || a.SampleRate <= 0 {
		return 0
	}

	return -60 / (slope * a.SampleRate)
}

// RT60 returns T30, falling back to T20 when the IR does not decay 35 dB.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	curve := schroeder(ir)

	for _, r := range []DecayRange{T30Range, T20Range} {
		if rt := a.DecayTime(curve, r); rt > 0 {
			return rt, nil
		}
	}

	return 0, ErrNoDecay
}

// fitRange returns the least-squares slope of curve over the first span that
// falls from r.StartDB to r.EndDB, or 0 if there is none.
func fitRange(curve []float64, r DecayRange) float64 {
	start, end := -1, -1

	for i, v := range curve {
		if start < 0 && v <= r.StartDB {
			start = i
		}

		if start >= 0 && v <= r.EndDB {
			end = i
			break
		}
	}

	if start < 0 || end <= start {
		return 0
	}

	return slope(curve[start : end+1])
}

// slope returns the least-squares slope of y against its index.
func slope(y []float64) float64 {
	n := float64(len(y))
	if n < 2 {
		return 0
	}

	var sx, sy, sxx, sxy float64
	for i, v := range y {
		x := float64(i)
		sx += x
		sy += v
		sxx += x * x
		sxy += x * v
	}

	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}

	return (n*sxy - sx*sy) / den
}
