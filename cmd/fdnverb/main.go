// Command fdnverb renders impulse responses and WAV files through the FDN
// reverb engine and prints room-acoustic metrics of the result.
//
// Usage:
//
//	fdnverb [flags]
//
// Without -in it renders the stereo impulse response of the selected preset.
// With -in it processes the file and appends -tail seconds of reverb.
//
// Examples:
//
//	fdnverb -preset cathedral
//	fdnverb -preset studio -decay 2.5 -out studio_ir.wav
//	fdnverb -in vocals.wav -out vocals_wet.wav -preset vocal-booth -mix 25
//	fdnverb -lines 12 -room 0.9 -bands
//	fdnverb -preset cathedral -lowdamp 0.6 -crossfeed 0.4 -invert
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-reverb/engine"
	"github.com/cwbudde/algo-reverb/measure/ir"
	"github.com/cwbudde/algo-vecmath/cpu"
)

type options struct {
	preset   string
	in       string
	out      string
	rate     float64
	block    int
	lines    int
	tail     float64
	bitDepth int
	bands    bool
	verbose  bool
	invert   bool

	mix       float64
	decay     float64
	preDelay  float64
	crossFeed float64
	room      float64
	density   float64
	damping   float64
	lowDamp   float64
	width     float64
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("fdnverb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.preset, "preset", "studio", "preset: clean, vocal-booth, studio, cathedral")
	fs.StringVar(&o.in, "in", "", "input WAV file (16/24/32-bit PCM, mono or stereo)")
	fs.StringVar(&o.out, "out", "", "output WAV file")
	fs.Float64Var(&o.rate, "rate", 48000, "sample rate for impulse rendering in Hz")
	fs.IntVar(&o.block, "block", 512, "processing block size in frames")
	fs.IntVar(&o.lines, "lines", 8, "number of delay lines (4-12)")
	fs.Float64Var(&o.tail, "tail", 3, "seconds rendered after the input ends")
	fs.IntVar(&o.bitDepth, "bits", 24, "output bit depth (16, 24 or 32)")
	fs.BoolVar(&o.bands, "bands", false, "print per-octave decay times")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")

	fs.Float64Var(&o.mix, "mix", math.NaN(), "wet/dry mix in percent")
	fs.Float64Var(&o.decay, "decay", math.NaN(), "decay time (RT60) in seconds")
	fs.Float64Var(&o.preDelay, "predelay", math.NaN(), "pre-delay in milliseconds")
	fs.Float64Var(&o.crossFeed, "crossfeed", math.NaN(), "wet crossfeed amount 0-1")
	fs.Float64Var(&o.room, "room", math.NaN(), "room size 0-1")
	fs.Float64Var(&o.density, "density", math.NaN(), "diffusion density 0-1")
	fs.Float64Var(&o.damping, "damping", math.NaN(), "high-frequency damping 0-1")
	fs.Float64Var(&o.lowDamp, "lowdamp", math.NaN(), "low-frequency damping 0-1")
	fs.Float64Var(&o.width, "width", math.NaN(), "wet stereo width 0-2")
	fs.BoolVar(&o.invert, "invert", false, "invert the polarity of the left-to-right crossfeed")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fdnverb [flags]\n\n")
		fmt.Fprintf(stderr, "Renders an impulse response or a WAV file through the FDN reverb.\n")
		fmt.Fprintf(stderr, "Parameter flags override the values of the selected preset.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if o.in != "" && o.out == "" {
		return o, errors.New("-in requires -out")
	}

	if o.tail < 0 || math.IsNaN(o.tail) {
		return o, fmt.Errorf("invalid -tail %g", o.tail)
	}

	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	features := cpu.DetectFeatures()
	logger.Debug("cpu features",
		"arch", features.Architecture,
		"sse2", features.HasSSE2,
		"avx2", features.HasAVX2,
		"neon", features.HasNEON)

	input, rate, err := loadInput(o)
	if err != nil {
		return err
	}

	e, err := newEngine(o, logger, rate)
	if err != nil {
		return err
	}

	output := render(e, input, o.block)

	if o.out != "" {
		if err := writeWAV(o.out, output, int(rate), o.bitDepth); err != nil {
			return fmt.Errorf("write %s: %w", o.out, err)
		}

		logger.Info("wrote output", "path", o.out, "frames", len(output[0]), "channels", len(output))
	}

	return report(stdout, e, output[0], o.bands)
}

// loadInput returns the channels to process: the input file plus a silent
// tail, or a stereo unit impulse followed by the tail.
func loadInput(o options) ([][]float32, float64, error) {
	if o.in == "" {
		frames := max(int(o.tail*o.rate), 1)
		input := [][]float32{make([]float32, frames), make([]float32, frames)}
		input[0][0] = 1
		input[1][0] = 1

		return input, o.rate, nil
	}

	channels, rate, err := readWAV(o.in)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", o.in, err)
	}

	if len(channels) > 2 {
		return nil, 0, fmt.Errorf("read %s: %d channels, want mono or stereo", o.in, len(channels))
	}

	tail := int(o.tail * float64(rate))
	for ch := range channels {
		channels[ch] = append(channels[ch], make([]float32, tail)...)
	}

	return channels, float64(rate), nil
}

func newEngine(o options, logger *slog.Logger, rate float64) (*engine.Engine, error) {
	e, err := engine.New(engine.WithLogger(logger), engine.WithDelayLines(o.lines))
	if err != nil {
		return nil, err
	}

	p, err := engine.ParsePreset(o.preset)
	if err != nil {
		return nil, err
	}

	e.SetPreset(p)

	overrides := []struct {
		value float64
		set   func(float64)
	}{
		{o.mix, e.SetWetDryMix},
		{o.decay, e.SetDecayTime},
		{o.preDelay, e.SetPreDelay},
		{o.crossFeed, e.SetCrossFeed},
		{o.room, e.SetRoomSize},
		{o.density, e.SetDensity},
		{o.damping, e.SetHighFreqDamping},
		{o.lowDamp, e.SetLowFreqDamping},
		{o.width, e.SetStereoWidth},
	}
	for _, ov := range overrides {
		if !math.IsNaN(ov.value) {
			ov.set(ov.value)
		}
	}

	e.SetPhaseInvert(o.invert)

	// Initialize snaps the smoothers, so the first sample already uses the
	// values set above.
	if err := e.Initialize(rate, o.block); err != nil {
		return nil, err
	}

	return e, nil
}

// render runs input through e in blocks of blockSize frames.
func render(e *engine.Engine, input [][]float32, blockSize int) [][]float32 {
	frames := len(input[0])
	output := make([][]float32, len(input))
	for ch := range output {
		output[ch] = make([]float32, frames)
	}

	in := make([][]float32, len(input))
	out := make([][]float32, len(input))

	for off := 0; off < frames; off += blockSize {
		end := min(off+blockSize, frames)
		for ch := range input {
			in[ch] = input[ch][off:end]
			out[ch] = output[ch][off:end]
		}

		e.ProcessBlock(in, out, end-off)
	}

	return output
}

func report(w io.Writer, e *engine.Engine, channel []float32, bands bool) error {
	response := make([]float64, len(channel))
	for i, v := range channel {
		response[i] = float64(v)
	}

	analyzer := ir.NewAnalyzer(e.SampleRate())

	m, err := analyzer.Analyze(response)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Preset\t%s\n", e.CurrentPreset())
	fmt.Fprintf(tw, "Delay lines\t%d\n", e.DelayLines())
	fmt.Fprintf(tw, "Sample rate\t%.0f Hz\n", e.SampleRate())
	fmt.Fprintf(tw, "Decay time\t%.2f s\n", e.DecayTime())
	fmt.Fprintf(tw, "RT60\t%.3f s\n", m.RT60)
	fmt.Fprintf(tw, "EDT\t%.3f s\n", m.EDT)
	fmt.Fprintf(tw, "C80\t%.2f dB\n", m.C80)
	fmt.Fprintf(tw, "D50\t%.3f\n", m.D50)
	fmt.Fprintf(tw, "Center time\t%.1f ms\n", m.CenterTime*1000)
	fmt.Fprintf(tw, "Tail length\t%.3f s\n", m.TailLength)

	if bands {
		decays, err := analyzer.BandDecay(response, 2048)
		if err != nil {
			return fmt.Errorf("band decay: %w", err)
		}

		fmt.Fprintf(tw, "\nBand\tRT60\n")
		fmt.Fprintf(tw, "----\t----\n")
		for _, b := range decays {
			fmt.Fprintf(tw, "%.0f Hz\t%.3f s\n", b.Center, b.RT60)
		}
	}

	return tw.Flush()
}
