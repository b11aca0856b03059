package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-reverb/dsp/effects/spatial"
	"github.com/cwbudde/algo-reverb/dsp/param"
)

// Errors returned by the engine.
var (
	ErrInvalidSampleRate = core.ErrInvalidSampleRate
	ErrInvalidBlockSize  = core.ErrInvalidBlockSize
	ErrUnknownPreset     = errors.New("engine: unknown preset")
)

// Parameter ranges.
const (
	MinDecayTime   = 0.1
	MaxDecayTime   = 10.0
	MaxPreDelayMs  = 200.0
	MaxStereoWidth = 2.0

	maxChannels = 2

	// controlInterval is the number of samples between structural parameter
	// updates. It counts across ProcessBlock calls, so the output does not
	// depend on how the host splits its buffers.
	controlInterval = 32
)

// State is the lifecycle state of an Engine.
type State int

// Engine states.
const (
	Uninitialized State = iota
	Active
	Bypassed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Active:
		return "Active"
	case Bypassed:
		return "Bypassed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine is a stereo FDN reverb with smoothed, lock-free parameters.
type Engine struct {
	logger        *slog.Logger
	delayLines    int
	smoothingTime float64

	mix       *param.Percentage
	decay     *param.Ranged
	preDelay  *param.Time
	crossFeed *param.Ranged
	roomSize  *param.Ranged
	density   *param.Ranged
	damping   *param.Ranged
	lowDamp   *param.Ranged
	width     *param.Ranged
	smoothers []*param.Smoother

	bypass      atomic.Bool
	phaseInvert atomic.Bool
	preset      atomic.Int32
	initialized atomic.Bool
	cpuUsage    atomic.Uint64

	// Owned by the audio goroutine once initialized.
	cfg        core.ProcessorConfig
	fdn        *reverb.FDN
	stereo     *spatial.CrossFeed
	dryL, dryR []float64
	wetL, wetR []float64
	wetGain    []float64
	dryGain    []float64
	tick       int
}

// New returns an uninitialized engine loaded with the VocalBooth preset.
// Until Initialize succeeds, ProcessBlock copies input to output.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		logger:        cfg.logger,
		delayLines:    cfg.delayLines,
		smoothingTime: cfg.smoothingTime,
	}

	if err := e.newParameters(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e.SetPreset(VocalBooth)

	return e, nil
}

func (e *Engine) newParameters() error {
	fs := core.DefaultProcessorConfig().SampleRate
	t := e.smoothingTime

	var err error

	if e.mix, err = param.NewPercentage(0, t, fs); err != nil {
		return err
	}

	if e.decay, err = param.NewExponential(MinDecayTime, MaxDecayTime, 1, t, fs); err != nil {
		return err
	}

	if e.preDelay, err = param.NewTime(0, MaxPreDelayMs/1000, 0, t, fs); err != nil {
		return err
	}

	unit := []**param.Ranged{&e.crossFeed, &e.roomSize, &e.density, &e.damping, &e.lowDamp}
	for _, p := range unit {
		if *p, err = param.NewRanged(0, 1, 0, t, fs); err != nil {
			return err
		}
	}

	if e.width, err = param.NewRanged(0, MaxStereoWidth, 1, t, fs); err != nil {
		return err
	}

	e.smoothers = []*param.Smoother{
		e.mix.Smoother, e.decay.Smoother, e.preDelay.Smoother, e.crossFeed.Smoother,
		e.roomSize.Smoother, e.density.Smoother, e.damping.Smoother, e.lowDamp.Smoother,
		e.width.Smoother,
	}

	return nil
}

// Initialize prepares the engine for sampleRate and blocks of up to
// maxBlockSize frames. Larger ProcessBlock calls are split internally.
// Parameter values are kept; every smoother jumps to its target.
func (e *Engine) Initialize(sampleRate float64, maxBlockSize int) error {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(maxBlockSize),
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("engine: initialize: %w", err)
	}

	fdn, err := reverb.NewFDN(cfg.SampleRate, reverb.WithDelayLines(e.delayLines))
	if err != nil {
		return fmt.Errorf("engine: initialize: %w", err)
	}

	stereo, err := spatial.NewCrossFeed()
	if err != nil {
		return fmt.Errorf("engine: initialize: %w", err)
	}

	for _, s := range e.smoothers {
		if err := s.SetSampleRate(cfg.SampleRate); err != nil {
			return fmt.Errorf("engine: initialize: %w", err)
		}
	}

	e.initialized.Store(false)

	e.cfg = cfg
	e.fdn = fdn
	e.stereo = stereo

	n := cfg.BlockSize
	e.dryL = core.EnsureLen(e.dryL, n)
	e.dryR = core.EnsureLen(e.dryR, n)
	e.wetL = core.EnsureLen(e.wetL, n)
	e.wetR = core.EnsureLen(e.wetR, n)
	e.wetGain = core.EnsureLen(e.wetGain, n)
	e.dryGain = core.EnsureLen(e.dryGain, n)

	e.Reset()
	e.cpuUsage.Store(0)
	e.initialized.Store(true)

	e.logger.Info("engine initialized",
		"sampleRate", cfg.SampleRate,
		"maxBlockSize", cfg.BlockSize,
		"delayLines", fdn.NumLines(),
		"delayLengths", fdn.DelayLengths(),
		"preDelayMs", core.SamplesToMs(fdn.PreDelay(), cfg.SampleRate),
		"preset", e.CurrentPreset().String(),
	)

	return nil
}

// IsInitialized reports whether Initialize has succeeded.
func (e *Engine) IsInitialized() bool { return e.initialized.Load() }

// State returns the lifecycle state.
func (e *Engine) State() State {
	switch {
	case !e.initialized.Load():
		return Uninitialized
	case e.bypass.Load():
		return Bypassed
	default:
		return Active
	}
}

// SampleRate returns the initialized sample rate, or 0 before Initialize.
func (e *Engine) SampleRate() float64 { return e.cfg.SampleRate }

// MaxBlockSize returns the initialized block size, or 0 before Initialize.
func (e *Engine) MaxBlockSize() int { return e.cfg.BlockSize }

// DelayLines returns the number of feedback lines.
func (e *Engine) DelayLines() int { return e.delayLines }

// Reset zeroes all audio state, jumps every smoother to its target and
// applies the parameters to the network at once.
func (e *Engine) Reset() {
	if e.fdn == nil {
		return
	}

	e.snap()
	e.control(0)
	e.fdn.Clear()
	e.tick = 0
}

// Clear zeroes all audio state and jumps every smoother to its target.
func (e *Engine) Clear() {
	if e.fdn == nil {
		return
	}

	e.fdn.Clear()
	e.snap()
}

func (e *Engine) snap() {
	for _, s := range e.smoothers {
		s.Snap()
	}
}

// CPUUsage returns the fraction of the real-time budget the last
// ProcessBlock call used: 0.5 means the block took half its duration.
func (e *Engine) CPUUsage() float64 {
	return math.Float64frombits(e.cpuUsage.Load())
}

// SetPreset applies the values of p and records it as the current preset.
// Custom only records the label.
func (e *Engine) SetPreset(p Preset) {
	v, ok := presetTable[p]
	if !ok {
		if p == Custom {
			e.preset.Store(int32(Custom))
		}

		return
	}

	e.mix.SetValue(v.wetDryMix)
	e.decay.SetValue(v.decayTime)
	e.preDelay.SetMilliseconds(v.preDelayMs)
	e.crossFeed.SetValue(v.crossFeed)
	e.roomSize.SetValue(v.roomSize)
	e.density.SetValue(v.density)
	e.damping.SetValue(v.highFreqDamping)
	e.bypass.Store(v.bypass)
	e.preset.Store(int32(p))

	e.logger.Debug("engine preset applied", "preset", p.String())
}

// CurrentPreset returns the last preset applied, or Custom after a manual
// parameter edit.
func (e *Engine) CurrentPreset() Preset { return Preset(e.preset.Load()) }

func (e *Engine) markCustom() { e.preset.Store(int32(Custom)) }

// SetWetDryMix sets the wet share in percent, clamped to [0, 100].
func (e *Engine) SetWetDryMix(percent float64) {
	e.mix.SetValue(percent)
	e.markCustom()
}

// WetDryMix returns the wet share in percent.
func (e *Engine) WetDryMix() float64 { return e.mix.Value() }

// SetDecayTime sets the RT60 in seconds, clamped to [0.1, 10].
func (e *Engine) SetDecayTime(seconds float64) {
	e.decay.SetValue(seconds)
	e.markCustom()
}

// DecayTime returns the RT60 in seconds.
func (e *Engine) DecayTime() float64 { return e.decay.Value() }

// SetPreDelay sets the pre-delay in milliseconds, clamped to [0, 200].
func (e *Engine) SetPreDelay(ms float64) {
	e.preDelay.SetMilliseconds(ms)
	e.markCustom()
}

// PreDelay returns the pre-delay in milliseconds.
func (e *Engine) PreDelay() float64 { return e.preDelay.Milliseconds() }

// SetCrossFeed sets the wet crossfeed amount, clamped to [0, 1].
func (e *Engine) SetCrossFeed(amount float64) {
	e.crossFeed.SetValue(amount)
	e.markCustom()
}

// CrossFeed returns the wet crossfeed amount.
func (e *Engine) CrossFeed() float64 { return e.crossFeed.Value() }

// SetRoomSize sets the room size, clamped to [0, 1].
func (e *Engine) SetRoomSize(size float64) {
	e.roomSize.SetValue(size)
	e.markCustom()
}

// RoomSize returns the room size.
func (e *Engine) RoomSize() float64 { return e.roomSize.Value() }

// SetDensity sets the diffusion density, clamped to [0, 1].
func (e *Engine) SetDensity(density float64) {
	e.density.SetValue(density)
	e.markCustom()
}

// Density returns the diffusion density.
func (e *Engine) Density() float64 { return e.density.Value() }

// SetHighFreqDamping sets the high-frequency damping, clamped to [0, 1].
func (e *Engine) SetHighFreqDamping(amount float64) {
	e.damping.SetValue(amount)
	e.markCustom()
}

// HighFreqDamping returns the high-frequency damping.
func (e *Engine) HighFreqDamping() float64 { return e.damping.Value() }

// SetLowFreqDamping sets the low-frequency damping, clamped to [0, 1]. 0
// leaves the bass untouched; presets do not change it.
func (e *Engine) SetLowFreqDamping(amount float64) {
	e.lowDamp.SetValue(amount)
	e.markCustom()
}

// LowFreqDamping returns the low-frequency damping.
func (e *Engine) LowFreqDamping() float64 { return e.lowDamp.Value() }

// SetStereoWidth sets the wet stereo width, clamped to [0, 2]. 1 leaves the
// image unchanged.
func (e *Engine) SetStereoWidth(width float64) {
	e.width.SetValue(width)
	e.markCustom()
}

// StereoWidth returns the wet stereo width.
func (e *Engine) StereoWidth() float64 { return e.width.Value() }

// SetBypass enables or disables bypass.
func (e *Engine) SetBypass(bypass bool) { e.bypass.Store(bypass) }

// IsBypassed reports whether bypass is enabled.
func (e *Engine) IsBypassed() bool { return e.bypass.Load() }

// SetPhaseInvert inverts the polarity of the left-to-right crossfeed path.
// It takes effect at the next control update and does not change the preset
// label.
func (e *Engine) SetPhaseInvert(invert bool) { e.phaseInvert.Store(invert) }

// IsPhaseInverted reports whether the crossfeed path is inverted.
func (e *Engine) IsPhaseInverted() bool { return e.phaseInvert.Load() }
