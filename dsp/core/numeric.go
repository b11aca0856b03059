package core

import "math"

const (
	defaultEpsilon = 1e-12

	// denormalThreshold is the magnitude below which recirculating state is
	// forced to zero.
	denormalThreshold = 1e-30

	// SilenceDB is the floor returned by LinearToDB for zero or negative gain.
	SilenceDB = -120.0
)

// Clamp limits value to the inclusive range [min, max].
// NaN is mapped to min so that bad control input can never reach a feedback path.
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min || math.IsNaN(value) {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps (absolute or relative).
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Feedback networks decaying toward silence otherwise spend their time in
// subnormal arithmetic.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}

	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Values at or below zero return SilenceDB.
func LinearToDB(linear float64) float64 {
	if linear <= 0 {
		return SilenceDB
	}

	return math.Max(20*math.Log10(linear), SilenceDB)
}

// MsToSamples converts a duration in milliseconds to a (fractional) sample count.
func MsToSamples(ms, sampleRate float64) float64 {
	return ms * sampleRate / 1000
}

// SamplesToMs converts a sample count to milliseconds.
func SamplesToMs(samples, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}

	return samples * 1000 / sampleRate
}
