package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/delay"
)

const (
	monoInjection    = 0.3
	monoOutputGain   = 0.3
	stereoInjection  = 0.25
	stereoOutputGain = 0.25

	minDecayTime = 0.1
	maxDecayTime = 10.0

	maxPreDelaySeconds = 0.2

	// roomFlushThreshold is the room size jump above which the network is
	// cleared instead of letting old content ring at the new lengths.
	roomFlushThreshold = 0.05

	minEarlyDelay      = 10
	maxEarlyDelayAt48k = 2400

	defaultDecayTime = 2.0
	defaultRoomSize  = 0.5
	defaultDensity   = 0.7
	defaultDamping   = 0.5
)

var (
	earlyReflectionBasis = [...]int{241, 317, 431, 563, 701, 857, 997, 1151}
	diffusionBasis       = [...]int{89, 109, 127, 149, 167, 191, 211, 233}
)

const earlyStages = 4

// Option configures an FDN at construction time.
type Option func(*fdnConfig) error

type fdnConfig struct {
	lines int
}

// WithDelayLines sets the number of feedback lines, in [4, 12]. Eight lines
// use a Householder matrix; other sizes use a sign-pattern matrix.
func WithDelayLines(n int) Option {
	return func(cfg *fdnConfig) error {
		if n < MinDelayLines || n > MaxDelayLines {
			return fmt.Errorf("fdn reverb delay lines must be in [%d, %d]: %d", MinDelayLines, MaxDelayLines, n)
		}

		cfg.lines = n

		return nil
	}
}

// FDN is a feedback delay network reverberator producing a wet-only signal.
type FDN struct {
	sampleRate float64

	lines   []*delay.Line
	damping []Damping
	lowCut  []LowCut
	matrix  *Matrix
	lengths []int
	gains   []float64
	taps    []float64
	mixed   []float64

	preDelay  *delay.Line
	early     diffuser
	diffusion diffuser

	decayTime       float64
	preDelaySamples float64
	roomSize        float64
	density         float64
	hfDamping       float64
	lfDamping       float64
}

// NewFDN allocates every buffer the network will ever need at sampleRate.
func NewFDN(sampleRate float64, opts ...Option) (*FDN, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("fdn reverb sample rate must be > 0: %f", sampleRate)
	}

	cfg := fdnConfig{lines: DefaultDelayLines}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	n := cfg.lines

	matrix, err := NewMatrix(n)
	if err != nil {
		return nil, err
	}

	f := &FDN{
		sampleRate: sampleRate,
		lines:      make([]*delay.Line, n),
		damping:    make([]Damping, n),
		lowCut:     make([]LowCut, n),
		matrix:     matrix,
		lengths:    make([]int, n),
		gains:      make([]float64, n),
		taps:       make([]float64, n),
		mixed:      make([]float64, n),
		decayTime:  defaultDecayTime,
		roomSize:   defaultRoomSize,
		density:    defaultDensity,
		hfDamping:  defaultDamping,
	}

	lineCap := maxDelayLength(n, sampleRate) + 1
	for i := range f.lines {
		if f.lines[i], err = delay.New(lineCap); err != nil {
			return nil, fmt.Errorf("fdn reverb line %d: %w", i, err)
		}

		f.damping[i] = NewDamping(f.hfDamping)
		f.lowCut[i] = NewLowCut(f.lfDamping, sampleRate)
	}

	if f.preDelay, err = delay.New(int(maxPreDelaySeconds*sampleRate) + 2); err != nil {
		return nil, fmt.Errorf("fdn reverb pre-delay: %w", err)
	}

	rateScale := sampleRate / referenceSampleRate

	earlyCap := int(math.Ceil(maxEarlyDelayAt48k*max(rateScale, 1))) + 2
	f.early = make(diffuser, earlyStages)

	for i := range f.early {
		gain := 0.75 - 0.05*float64(i)
		if f.early[i], err = NewAllPass(earlyCap, minEarlyDelay, gain); err != nil {
			return nil, fmt.Errorf("fdn reverb early reflection %d: %w", i, err)
		}
	}

	f.diffusion = make(diffuser, len(diffusionBasis))
	for i, p := range diffusionBasis {
		d := max(math.Round(float64(p)*rateScale), 1)
		if f.diffusion[i], err = NewAllPass(int(d)+2, d, diffusionGain(f.density)); err != nil {
			return nil, fmt.Errorf("fdn reverb diffusion %d: %w", i, err)
		}
	}

	f.updateLengths()
	f.updateEarly()

	return f, nil
}

func diffusionGain(density float64) float64 {
	return 0.5 + 0.3*density
}

// SampleRate returns the rate the network was built for.
func (f *FDN) SampleRate() float64 { return f.sampleRate }

// NumLines returns the number of feedback lines.
func (f *FDN) NumLines() int { return len(f.lines) }

// Matrix returns the feedback matrix.
func (f *FDN) Matrix() *Matrix { return f.matrix }

// DecayTime returns the RT60 in seconds.
func (f *FDN) DecayTime() float64 { return f.decayTime }

// PreDelay returns the pre-delay in samples.
func (f *FDN) PreDelay() float64 { return f.preDelaySamples }

// RoomSize returns the room size in [0, 1].
func (f *FDN) RoomSize() float64 { return f.roomSize }

// Density returns the diffusion density in [0, 1].
func (f *FDN) Density() float64 { return f.density }

// HighFreqDamping returns the damping amount in [0, 1].
func (f *FDN) HighFreqDamping() float64 { return f.hfDamping }

// LowFreqDamping returns the low-frequency damping amount in [0, 1].
func (f *FDN) LowFreqDamping() float64 { return f.lfDamping }

// DelayLengths returns a copy of the current feedback line lengths.
func (f *FDN) DelayLengths() []int {
	out := make([]int, len(f.lengths))
	copy(out, f.lengths)

	return out
}

// SetDecayTime sets the RT60 in seconds, clamped to [0.1, 10].
func (f *FDN) SetDecayTime(seconds float64) {
	seconds = core.Clamp(seconds, minDecayTime, maxDecayTime)
	if seconds == f.decayTime {
		return
	}

	f.decayTime = seconds
	f.updateGains()
}

// SetPreDelay sets the pre-delay in samples, clamped to [0, 0.2·sampleRate].
// The pre-delay line always contributes at least one sample.
func (f *FDN) SetPreDelay(samples float64) {
	f.preDelaySamples = core.Clamp(samples, 0, maxPreDelaySeconds*f.sampleRate)
	f.preDelay.SetDelay(f.preDelaySamples)
}

// SetRoomSize sets the room size in [0, 1] and recomputes the line lengths,
// the early reflection taps and the decay gains. A jump larger than 0.05
// clears the network.
func (f *FDN) SetRoomSize(size float64) {
	size = core.Clamp(size, 0, 1)
	if size == f.roomSize {
		return
	}

	flush := math.Abs(size-f.roomSize) > roomFlushThreshold
	f.roomSize = size

	f.updateLengths()
	f.updateEarly()

	if flush {
		f.Clear()
	}
}

// SetDensity sets the diffusion density in [0, 1]; the all-pass gain is
// 0.5 + 0.3·density.
func (f *FDN) SetDensity(density float64) {
	f.density = core.Clamp(density, 0, 1)

	g := diffusionGain(f.density)
	for _, ap := range f.diffusion {
		ap.SetGain(g)
	}
}

// SetHighFreqDamping sets the per-line damping amount in [0, 1].
func (f *FDN) SetHighFreqDamping(amount float64) {
	f.hfDamping = core.Clamp(amount, 0, 1)
	for i := range f.damping {
		f.damping[i].SetDamping(f.hfDamping)
	}
}

// SetLowFreqDamping sets the per-line low-cut amount in [0, 1]. 0 (the
// default) disables the stage; larger amounts raise the high-pass corner
// from 50 Hz to 250 Hz and shorten the low-frequency decay.
func (f *FDN) SetLowFreqDamping(amount float64) {
	f.lfDamping = core.Clamp(amount, 0, 1)
	for i := range f.lowCut {
		f.lowCut[i].SetAmount(f.lfDamping)
	}
}

func (f *FDN) updateLengths() {
	DelayLengths(f.lengths, f.roomSize, f.sampleRate)

	for i, line := range f.lines {
		line.SetDelay(float64(f.lengths[i]))
	}

	f.updateGains()
}

func (f *FDN) updateGains() {
	for j, l := range f.lengths {
		f.gains[j] = DecayGain(float64(l), f.decayTime, f.sampleRate)
	}

	f.matrix.SetDecayGains(f.gains)
}

func (f *FDN) updateEarly() {
	rateScale := f.sampleRate / referenceSampleRate
	roomScale := 0.3 + 0.7*f.roomSize
	hi := max(maxEarlyDelayAt48k*rateScale, minEarlyDelay)

	for i, ap := range f.early {
		d := math.Floor(float64(earlyReflectionBasis[i]) * rateScale * roomScale)
		ap.SetDelay(core.Clamp(d, minEarlyDelay, hi))
	}
}

// ProcessSample runs one mono sample through the network and returns the wet
// output.
func (f *FDN) ProcessSample(x float64) float64 {
	even, odd := f.recirculate(f.inject(x), monoInjection)
	return (even + odd) * monoOutputGain
}

// ProcessStereoSample runs one stereo frame through the network. The input is
// summed to mono; even lines feed the left output and odd lines the right.
func (f *FDN) ProcessStereoSample(left, right float64) (float64, float64) {
	even, odd := f.recirculate(f.inject(0.5*(left+right)), stereoInjection)
	return even * stereoOutputGain, odd * stereoOutputGain
}

// ProcessMono writes the wet signal for src into dst. In-place use is allowed.
func (f *FDN) ProcessMono(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = f.ProcessSample(src[i])
	}
}

// ProcessStereo writes the wet signal for the srcL/srcR frames into
// dstL/dstR. In-place use is allowed.
func (f *FDN) ProcessStereo(dstL, dstR, srcL, srcR []float64) {
	n := min(len(dstL), len(dstR), len(srcL), len(srcR))
	for i := range n {
		dstL[i], dstR[i] = f.ProcessStereoSample(srcL[i], srcR[i])
	}
}

// inject runs the input through pre-delay, early reflections and diffusion.
func (f *FDN) inject(x float64) float64 {
	x = f.preDelay.Process(x)
	x = f.early.process(x)

	return f.diffusion.process(x)
}

// recirculate reads every line, mixes, damps (high then low frequencies) and
// writes back. It returns the sums of the damped even and odd lines.
func (f *FDN) recirculate(in, injection float64) (even, odd float64) {
	for i, line := range f.lines {
		f.taps[i] = line.Peek()
	}

	f.matrix.Apply(f.mixed, f.taps)

	in *= injection

	for i, line := range f.lines {
		damped := f.lowCut[i].Process(f.damping[i].Process(f.mixed[i]))
		line.Write(core.FlushDenormals(in + damped))

		if i%2 == 0 {
			even += damped
		} else {
			odd += damped
		}
	}

	return even, odd
}

// Clear zeroes every delay line and filter state. Parameters are kept.
func (f *FDN) Clear() {
	for i, line := range f.lines {
		line.Clear()
		f.damping[i].Clear()
		f.lowCut[i].Clear()
	}

	f.preDelay.Clear()
	f.early.clear()
	f.diffusion.clear()
}

// ImpulseResponse renders n samples of the mono wet response to a unit
// impulse. The network is cleared before and after. It allocates and is meant
// for analysis, not for the audio thread.
func (f *FDN) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	f.Clear()

	out := make([]float64, n)
	out[0] = f.ProcessSample(1)

	for i := 1; i < n; i++ {
		out[i] = f.ProcessSample(0)
	}

	f.Clear()

	return out
}
