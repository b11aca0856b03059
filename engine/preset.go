package engine

import (
	"fmt"
	"strings"
)

// Preset names a fixed bundle of parameter values.
type Preset int32

// Presets. Custom marks a manually edited state.
const (
	Clean Preset = iota
	VocalBooth
	Studio
	Cathedral
	Custom
)

var presetNames = [...]string{
	Clean:      "Clean",
	VocalBooth: "VocalBooth",
	Studio:     "Studio",
	Cathedral:  "Cathedral",
	Custom:     "Custom",
}

func (p Preset) String() string {
	if p < 0 || int(p) >= len(presetNames) {
		return fmt.Sprintf("Preset(%d)", int32(p))
	}

	return presetNames[p]
}

// Presets returns every preset in declaration order.
func Presets() []Preset {
	return []Preset{Clean, VocalBooth, Studio, Cathedral, Custom}
}

// ParsePreset resolves a preset name. Matching ignores case, spaces, '-' and
// '_', so "vocal-booth" selects VocalBooth.
func ParsePreset(name string) (Preset, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}

		return r
	}, name)

	for i, n := range presetNames {
		if strings.EqualFold(key, n) {
			return Preset(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// presetValues holds every parameter a preset sets.
type presetValues struct {
	wetDryMix       float64 // percent
	decayTime       float64 // seconds
	preDelayMs      float64
	crossFeed       float64
	roomSize        float64
	density         float64
	highFreqDamping float64
	bypass          bool
}

var presetTable = map[Preset]presetValues{
	Clean: {
		wetDryMix: 0, decayTime: 0.1, preDelayMs: 0,
		crossFeed: 0, roomSize: 0, density: 0, highFreqDamping: 0,
		bypass: true,
	},
	VocalBooth: {
		wetDryMix: 18, decayTime: 0.9, preDelayMs: 8,
		crossFeed: 0.3, roomSize: 0.35, density: 0.7, highFreqDamping: 0.3,
	},
	Studio: {
		wetDryMix: 40, decayTime: 1.7, preDelayMs: 15,
		crossFeed: 0.5, roomSize: 0.6, density: 0.85, highFreqDamping: 0.45,
	},
	Cathedral: {
		wetDryMix: 65, decayTime: 2.8, preDelayMs: 25,
		crossFeed: 0.7, roomSize: 0.85, density: 0.6, highFreqDamping: 0.6,
	},
}
