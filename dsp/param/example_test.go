package param_test

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/param"
)

func ExampleSmoother() {
	s, err := param.NewSmoother(0, 0.001, 48000)
	if err != nil {
		panic(err)
	}

	s.SetTarget(1)
	s.Latch()

	fmt.Printf("%.3f %.3f\n", s.Skip(48), s.Skip(4800))
	// Output: 0.632 1.000
}

func ExampleTime_SetBPM() {
	tm, err := param.NewTime(0, 2, 0, 0, 48000)
	if err != nil {
		panic(err)
	}

	_ = tm.SetNoteValue(0.375)
	_ = tm.SetBPM(90)

	fmt.Printf("%.0f ms\n", tm.Milliseconds())
	// Output: 1000 ms
}
