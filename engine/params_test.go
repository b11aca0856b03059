package engine

import (
	"errors"
	"math"
	"testing"
)

func TestPresetValues(t *testing.T) {
	tests := []struct {
		preset Preset
		want   presetValues
	}{
		{Clean, presetValues{0, 0.1, 0, 0, 0, 0, 0, true}},
		{VocalBooth, presetValues{18, 0.9, 8, 0.3, 0.35, 0.7, 0.3, false}},
		{Studio, presetValues{40, 1.7, 15, 0.5, 0.6, 0.85, 0.45, false}},
		{Cathedral, presetValues{65, 2.8, 25, 0.7, 0.85, 0.6, 0.6, false}},
	}

	e, err := New(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	for _, tt := range tests {
		t.Run(tt.preset.String(), func(t *testing.T) {
			e.SetPreset(tt.preset)

			if e.CurrentPreset() != tt.preset {
				t.Fatalf("CurrentPreset = %v", e.CurrentPreset())
			}

			got := presetValues{
				wetDryMix:       e.WetDryMix(),
				decayTime:       e.DecayTime(),
				preDelayMs:      e.PreDelay(),
				crossFeed:       e.CrossFeed(),
				roomSize:        e.RoomSize(),
				density:         e.Density(),
				highFreqDamping: e.HighFreqDamping(),
				bypass:          e.IsBypassed(),
			}

			if !near(got.wetDryMix, tt.want.wetDryMix) || !near(got.decayTime, tt.want.decayTime) ||
				!near(got.preDelayMs, tt.want.preDelayMs) || !near(got.crossFeed, tt.want.crossFeed) ||
				!near(got.roomSize, tt.want.roomSize) || !near(got.density, tt.want.density) ||
				!near(got.highFreqDamping, tt.want.highFreqDamping) || got.bypass != tt.want.bypass {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestManualEditMarksCustom(t *testing.T) {
	e, err := New(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	e.SetPreset(Studio)
	e.SetRoomSize(0.9)

	if e.CurrentPreset() != Custom {
		t.Fatalf("CurrentPreset = %v, want Custom", e.CurrentPreset())
	}

	e.SetPreset(Studio)
	e.SetPreset(Custom)

	if e.CurrentPreset() != Custom || e.RoomSize() != 0.6 {
		t.Fatalf("Custom should keep Studio values: preset %v room %v", e.CurrentPreset(), e.RoomSize())
	}

	e.SetPreset(Studio)
	e.SetPhaseInvert(true)

	if e.CurrentPreset() != Studio || !e.IsPhaseInverted() {
		t.Fatalf("phase invert should not mark Custom: preset %v", e.CurrentPreset())
	}

	e.SetLowFreqDamping(0.5)

	if e.CurrentPreset() != Custom {
		t.Fatalf("SetLowFreqDamping: CurrentPreset = %v, want Custom", e.CurrentPreset())
	}

	e.SetBypass(true)
	e.SetPreset(Preset(42))

	if e.CurrentPreset() != Custom || !e.IsBypassed() {
		t.Fatal("unknown preset must be ignored")
	}
}

func TestParameterClamping(t *testing.T) {
	e, err := New(WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name string
		set  func(float64)
		get  func() float64
		in   float64
		want float64
	}{
		{"mix low", e.SetWetDryMix, e.WetDryMix, -5, 0},
		{"mix high", e.SetWetDryMix, e.WetDryMix, 150, 100},
		{"decay low", e.SetDecayTime, e.DecayTime, 0, 0.1},
		{"decay high", e.SetDecayTime, e.DecayTime, 60, 10},
		{"pre-delay low", e.SetPreDelay, e.PreDelay, -1, 0},
		{"pre-delay high", e.SetPreDelay, e.PreDelay, 1000, 200},
		{"crossfeed", e.SetCrossFeed, e.CrossFeed, 2, 1},
		{"room", e.SetRoomSize, e.RoomSize, -0.5, 0},
		{"density", e.SetDensity, e.Density, 9, 1},
		{"damping", e.SetHighFreqDamping, e.HighFreqDamping, -9, 0},
		{"low damping low", e.SetLowFreqDamping, e.LowFreqDamping, -1, 0},
		{"low damping high", e.SetLowFreqDamping, e.LowFreqDamping, 4, 1},
		{"width", e.SetStereoWidth, e.StereoWidth, 3, 2},
		{"nan", e.SetRoomSize, e.RoomSize, math.NaN(), 0},
	}

	for _, tt := range tests {
		tt.set(tt.in)

		if got := tt.get(); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParsePreset(t *testing.T) {
	tests := map[string]Preset{
		"clean":       Clean,
		"VocalBooth":  VocalBooth,
		"vocal-booth": VocalBooth,
		"vocal booth": VocalBooth,
		"STUDIO":      Studio,
		"cathedral":   Cathedral,
		"custom":      Custom,
	}

	for name, want := range tests {
		got, err := ParsePreset(name)
		if err != nil || got != want {
			t.Fatalf("ParsePreset(%q) = %v, %v; want %v", name, got, err, want)
		}
	}

	if _, err := ParsePreset("hall"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("ParsePreset(hall): err = %v", err)
	}

	if s := Preset(9).String(); s != "Preset(9)" {
		t.Fatalf("String = %q", s)
	}

	if s := State(7).String(); s != "State(7)" {
		t.Fatalf("State String = %q", s)
	}
}
