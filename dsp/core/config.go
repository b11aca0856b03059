package core

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by ProcessorConfig validation.
var (
	ErrInvalidSampleRate = errors.New("core: sample rate must be positive and finite")
	ErrInvalidBlockSize  = errors.New("core: block size must be positive")
)

// ProcessorConfig defines the settings a real-time processor is prepared for.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with 512-frame blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		BlockSize:  512,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SampleRate = sampleRate
	}
}

// WithBlockSize sets the maximum number of frames per processing call.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.BlockSize = blockSize
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate checks that the configuration can be used to size buffers.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, c.SampleRate)
	}

	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.BlockSize)
	}

	return nil
}
