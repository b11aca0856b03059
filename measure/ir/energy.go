package ir

import (
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// Definition returns D(t), the fraction of energy arriving before timeMs.
func (a *Analyzer) Definition(ir []float64, timeMs float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	if timeMs <= 0 {
		return 0, ErrInvalidTime
	}

	return a.definition(ir, timeMs), nil
}

// Clarity returns C(t) = 10·log10(early/late) in dB with the boundary at
// timeMs.
func (a *Analyzer) Clarity(ir []float64, timeMs float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	if timeMs <= 0 {
		return 0, ErrInvalidTime
	}

	return a.clarity(ir, timeMs), nil
}

// CenterTime returns the energy centroid in seconds.
func (a *Analyzer) CenterTime(ir []float64) (float64, error) {
	if err := a.check(ir); err != nil {
		return 0, err
	}

	return a.centerTime(ir), nil
}

// split returns the energy before and after boundary samples.
func split(ir []float64, boundary int) (early, late float64) {
	for i, v := range ir {
		if i < boundary {
			early += v * v
		} else {
			late += v * v
		}
	}

	return early, late
}

func (a *Analyzer) boundary(timeMs float64) int {
	return int(math.Round(core.MsToSamples(timeMs, a.SampleRate)))
}

func (a *Analyzer) definition(ir []float64, timeMs float64) float64 {
	b := a.boundary(timeMs)

	switch {
	case b <= 0:
		return 0
	case b >= len(ir):
		return 1
	}

	early, late := split(ir, b)
	if early+late <= 0 {
		return 0
	}

	return early / (early + late)
}

func (a *Analyzer) clarity(ir []float64, timeMs float64) float64 {
	b := a.boundary(timeMs)

	switch {
	case b <= 0:
		return math.Inf(-1)
	case b >= len(ir):
		return math.Inf(1)
	}

	early, late := split(ir, b)

	switch {
	case late <= 0:
		return math.Inf(1)
	case early <= 0:
		return math.Inf(-1)
	}

	return 10 * math.Log10(early/late)
}

func (a *Analyzer) centerTime(ir []float64) float64 {
	var num, den float64

	for i, v := range ir {
		e := v * v
		num += float64(i) * e
		den += e
	}

	if den <= 0 {
		return 0
	}

	return num / den / a.SampleRate
}
