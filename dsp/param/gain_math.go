//go:build !fastmath

package param

import "github.com/cwbudde/algo-reverb/dsp/core"

func dbToGain(db float64) float64 {
	return core.DBToLinear(db)
}

func gainToDB(gain float64) float64 {
	return core.LinearToDB(gain)
}
