package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var errUnsupportedWAV = errors.New("unsupported wav file")

const wavFormatPCM = 1

// readWAV loads a PCM WAV file as deinterleaved float32 channels in [-1, 1].
func readWAV(path string) ([][]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	return decodeWAV(f)
}

func decodeWAV(r io.ReadSeeker) ([][]float32, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("%w: not a RIFF/WAVE stream", errUnsupportedWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, 0, fmt.Errorf("%w: %d-bit samples", errUnsupportedWAV, bitDepth)
	}

	numChannels := buf.Format.NumChannels
	if numChannels < 1 {
		return nil, 0, fmt.Errorf("%w: %d channels", errUnsupportedWAV, numChannels)
	}

	frames := len(buf.Data) / numChannels
	scale := 1 / float64(int64(1)<<(bitDepth-1))

	channels := make([][]float32, numChannels)
	for ch := range channels {
		channels[ch] = make([]float32, frames)
	}

	for i := 0; i < frames; i++ {
		for ch := range channels {
			channels[ch][i] = float32(float64(buf.Data[i*numChannels+ch]) * scale)
		}
	}

	return channels, buf.Format.SampleRate, nil
}

// writeWAV stores channels as an interleaved PCM WAV file. Samples are
// clipped to [-1, 1].
func writeWAV(path string, channels [][]float32, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := encodeWAV(f, channels, sampleRate, bitDepth); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

func encodeWAV(w io.WriteSeeker, channels [][]float32, sampleRate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return fmt.Errorf("%w: %d-bit samples", errUnsupportedWAV, bitDepth)
	}

	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels", errUnsupportedWAV)
	}

	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}

	peak := float64(int64(1)<<(bitDepth-1) - 1)
	data := make([]int, frames*len(channels))

	for i := 0; i < frames; i++ {
		for ch, samples := range channels {
			v := math.Max(-1, math.Min(1, float64(samples[i])))
			data[i*len(channels)+ch] = int(math.Round(v * peak))
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: len(channels),
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, len(channels), wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	return enc.Close()
}
