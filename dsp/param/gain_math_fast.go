//go:build fastmath

package param

import "github.com/meko-christian/algo-approx"

// ln10 is the natural logarithm of 10.
const ln10 = 2.30258509299404568401799145468

// dbToGain uses 10^(db/20) = e^(db·ln10/20).
func dbToGain(db float64) float64 {
	return approx.FastExp(db * ln10 / 20)
}

func gainToDB(gain float64) float64 {
	return 20 / ln10 * approx.FastLog(gain)
}
