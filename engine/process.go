package engine

import (
	"math"
	"time"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// ProcessBlock processes numFrames frames of one (mono) or two (stereo)
// channels. len(inputs) is the channel count; outputs must hold at least as
// many channels. Input and output buffers may alias.
//
// Before Initialize, with an unsupported channel layout or while bypassed,
// the input is copied to the output unchanged. ProcessBlock does not
// allocate, lock or log.
func (e *Engine) ProcessBlock(inputs, outputs [][]float32, numFrames int) {
	channels := len(inputs)
	n := frameCount(inputs, outputs, numFrames)

	if !e.initialized.Load() || channels < 1 || channels > maxChannels || len(outputs) < channels {
		core.CopyChannels(outputs, inputs, n)
		return
	}

	if e.bypass.Load() {
		core.CopyChannels(outputs, inputs, n)
		e.cpuUsage.Store(0)

		return
	}

	if n == 0 {
		return
	}

	start := time.Now()

	for _, s := range e.smoothers {
		s.Latch()
	}

	for off := 0; off < n; off += e.cfg.BlockSize {
		end := min(off+e.cfg.BlockSize, n)
		if channels == 1 {
			e.processMono(inputs[0][off:end], outputs[0][off:end])
		} else {
			e.processStereo(inputs[0][off:end], inputs[1][off:end], outputs[0][off:end], outputs[1][off:end])
		}
	}

	budget := float64(n) / e.cfg.SampleRate
	e.cpuUsage.Store(math.Float64bits(time.Since(start).Seconds() / budget))
}

// frameCount bounds numFrames by every buffer it will touch.
func frameCount(inputs, outputs [][]float32, numFrames int) int {
	n := max(numFrames, 0)

	for ch := range min(len(inputs), len(outputs)) {
		n = min(n, len(inputs[ch]), len(outputs[ch]))
	}

	return n
}

func (e *Engine) processMono(in, out []float32) {
	m := len(in)
	dry := e.dryL[:m]
	wet := e.wetL[:m]

	core.Widen(dry, in)

	for i, x := range dry {
		e.advanceControl()
		wet[i] = e.fdn.ProcessSample(x)
		e.mixGains(i)
	}

	e.mixInto(out, dry, wet)
}

func (e *Engine) processStereo(inL, inR, outL, outR []float32) {
	m := len(inL)
	dryL, dryR := e.dryL[:m], e.dryR[:m]
	wetL, wetR := e.wetL[:m], e.wetR[:m]

	core.Widen(dryL, inL)
	core.Widen(dryR, inR)

	for i := range m {
		e.advanceControl()
		l, r := e.fdn.ProcessStereoSample(dryL[i], dryR[i])
		wetL[i], wetR[i] = e.stereo.ProcessStereo(l, r)
		e.mixGains(i)
	}

	e.mixInto(outL, dryL, wetL)
	e.mixInto(outR, dryR, wetR)
}

// mixGains stores the per-sample wet and dry gains for frame i.
func (e *Engine) mixGains(i int) {
	w := e.mix.NextLatchedRatio()
	e.wetGain[i] = w
	e.dryGain[i] = 1 - w
}

// mixInto writes dry·(1−mix) + wet·mix to out. dry and wet are overwritten.
func (e *Engine) mixInto(out []float32, dry, wet []float64) {
	m := len(dry)
	vecmath.MulBlockInPlace(dry, e.dryGain[:m])
	vecmath.MulBlockInPlace(wet, e.wetGain[:m])

	for i, w := range wet {
		dry[i] += w
	}

	core.Narrow(out, dry)
}

// advanceControl runs the structural parameter update on every
// controlInterval-th sample.
func (e *Engine) advanceControl() {
	if e.tick == 0 {
		e.control(controlInterval)
	}

	e.tick++
	if e.tick == controlInterval {
		e.tick = 0
	}
}

// control advances the structural smoothers by step samples and pushes the
// values into the network.
func (e *Engine) control(step int) {
	e.fdn.SetDecayTime(e.decay.SkipLatched(step))
	preDelayMs := 1000 * e.preDelay.SkipLatched(step)
	e.fdn.SetPreDelay(core.MsToSamples(preDelayMs, e.cfg.SampleRate))
	e.fdn.SetRoomSize(e.roomSize.SkipLatched(step))
	e.fdn.SetDensity(e.density.SkipLatched(step))
	e.fdn.SetHighFreqDamping(e.damping.SkipLatched(step))
	e.fdn.SetLowFreqDamping(e.lowDamp.SkipLatched(step))
	e.stereo.SetAmount(e.crossFeed.SkipLatched(step))
	e.stereo.SetWidth(e.width.SkipLatched(step))
	e.stereo.SetPhaseInvert(e.phaseInvert.Load())
}
