package ir

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-reverb/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// OctaveCenters are the nominal octave band centres analysed by BandDecay.
var OctaveCenters = []float64{125, 250, 500, 1000, 2000, 4000, 8000}

// BandDecay is the reverberation time of one octave band.
type BandDecay struct {
	Center float64 // Hz
	RT60   float64 // seconds, 0 if the band never decays 25 dB
}

// BandDecay estimates the RT60 of each octave band from a short-time Fourier
// transform of ir. Frames are fftSize samples with a periodic Hann window and
// 50% overlap. Band energies per frame are backward-integrated like a Schroeder
// curve before the slope fit. Bands above Nyquist are omitted.
func (a *Analyzer) BandDecay(ir []float64, fftSize int) ([]BandDecay, error) {
	if err := a.check(ir); err != nil {
		return nil, err
	}

	if fftSize < 64 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	if len(ir) < fftSize {
		return nil, ErrShortIR
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("ir: fft plan: %w", err)
	}

	hop := fftSize / 2
	frames := (len(ir)-fftSize)/hop + 1
	bins := fftSize/2 + 1
	binHz := a.SampleRate / float64(fftSize)

	type band struct {
		center float64
		lo, hi int
		energy []float64
	}

	var bands []band

	for _, fc := range OctaveCenters {
		upper := fc * math.Sqrt2
		if upper > a.SampleRate/2 {
			break
		}

		lo := max(int(math.Ceil(fc/math.Sqrt2/binHz)), 1)
		hi := min(int(math.Floor(upper/binHz)), bins-1)

		if hi < lo {
			continue
		}

		bands = append(bands, band{center: fc, lo: lo, hi: hi, energy: make([]float64, frames)})
	}

	taper, err := window.Hann(fftSize, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("ir: %w", err)
	}

	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)
	power := make([]float64, bins)

	for f := range frames {
		seg := ir[f*hop : f*hop+fftSize]
		for i, v := range seg {
			in[i] = complex(v*taper[i], 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("ir: fft frame %d: %w", f, err)
		}

		for k := range bins {
			re[k] = real(out[k])
			im[k] = imag(out[k])
		}

		vecmath.Power(power, re, im)

		for b := range bands {
			var e float64
			for _, p := range power[bands[b].lo : bands[b].hi+1] {
				e += p
			}

			bands[b].energy[f] = e
		}
	}

	frameRate := a.SampleRate / float64(hop)
	result := make([]BandDecay, len(bands))

	for b, bd := range bands {
		curve := bd.energy
		for i := len(curve) - 2; i >= 0; i-- {
			curve[i] += curve[i+1]
		}

		toDB(curve)

		result[b] = BandDecay{Center: bd.center}

		for _, r := range []DecayRange{T30Range, T20Range} {
			if s := fitRange(curve, r); s < 0 {
				result[b].RT60 = -60 / (s * frameRate)
				break
			}
		}
	}

	return result, nil
}
