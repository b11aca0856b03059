package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

const defaultSmoothingTime = 0.05

// Option configures an Engine at construction time.
type Option func(*config) error

type config struct {
	logger        *slog.Logger
	delayLines    int
	smoothingTime float64
}

func defaultConfig() config {
	return config{
		logger:        slog.Default(),
		delayLines:    reverb.DefaultDelayLines,
		smoothingTime: defaultSmoothingTime,
	}
}

// WithLogger sets the logger used on the control path. ProcessBlock never
// logs.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("engine: logger must not be nil")
		}

		cfg.logger = logger

		return nil
	}
}

// WithDelayLines sets the number of feedback lines, in [4, 12].
func WithDelayLines(n int) Option {
	return func(cfg *config) error {
		if n < reverb.MinDelayLines || n > reverb.MaxDelayLines {
			return fmt.Errorf("engine: delay lines must be in [%d, %d]: %d",
				reverb.MinDelayLines, reverb.MaxDelayLines, n)
		}

		cfg.delayLines = n

		return nil
	}
}

// WithSmoothingTime sets the parameter smoothing time constant in seconds.
// Zero disables smoothing.
func WithSmoothingTime(seconds float64) Option {
	return func(cfg *config) error {
		if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
			return fmt.Errorf("engine: smoothing time must be >= 0 and finite: %f", seconds)
		}

		cfg.smoothingTime = seconds

		return nil
	}
}
