package reverb

import (
	"math"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

// Supported feedback line counts.
const (
	MinDelayLines     = 4
	MaxDelayLines     = 12
	DefaultDelayLines = householderSize
)

const (
	// minDelaySamples is the shortest feedback line.
	minDelaySamples = 100
	// roomDelaySeconds is the longest feedback line at roomSize 1.
	roomDelaySeconds = 0.08

	referenceSampleRate = 48000.0

	// primeSlack covers the upward snap to the next prime.
	primeSlack = 64
)

// primeDelayBasis holds the feedback line lengths at 48 kHz before room
// scaling.
var primeDelayBasis = [...]int{
	1447, 1549, 1693, 1789, 1907, 2063, 2179, 2311, 2467, 2633,
	2801, 2969, 3137, 3307, 3491, 3677, 3863, 4051, 4241, 4801,
}

// DelayLengths fills dst with the feedback line lengths for roomSize in
// [0, 1] at sampleRate. len(dst) selects the number of lines (at most 20).
//
// The prime basis is scaled by the sample rate and by 0.5+1.5·roomSize, then
// uniformly rescaled so the set fits [100, max(0.08·sampleRate·roomSize,
// 100·spread)], where spread is the ratio of the longest to the shortest
// basis entry. Each length then moves up to the next prime above its
// predecessor. The result is strictly increasing and pairwise coprime.
// DelayLengths does not allocate.
func DelayLengths(dst []int, roomSize, sampleRate float64) {
	n := min(len(dst), len(primeDelayBasis))
	if n == 0 || sampleRate <= 0 {
		return
	}

	roomSize = core.Clamp(roomSize, 0, 1)
	scale := sampleRate / referenceSampleRate * (0.5 + 1.5*roomSize)

	first := float64(primeDelayBasis[0]) * scale
	last := float64(primeDelayBasis[n-1]) * scale
	spread := float64(primeDelayBasis[n-1]) / float64(primeDelayBasis[0])

	hi := max(sampleRate*roomDelaySeconds*roomSize, minDelaySamples*spread)

	k := 1.0
	if last > hi {
		k = hi / last
	}

	if first*k < minDelaySamples {
		k = minDelaySamples / first
	}

	prev := 0
	for i := range n {
		target := max(int(math.Round(float64(primeDelayBasis[i])*scale*k)), prev+1)
		p := nextPrime(target)
		dst[i] = p
		prev = p
	}
}

// maxDelayLength bounds every length DelayLengths can produce at sampleRate
// for n lines.
func maxDelayLength(n int, sampleRate float64) int {
	spread := float64(primeDelayBasis[n-1]) / float64(primeDelayBasis[0])
	hi := max(sampleRate*roomDelaySeconds, minDelaySamples*spread)

	return int(math.Ceil(hi)) + n + primeSlack
}

// nextPrime returns the smallest prime >= n.
func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}

	if n%2 == 0 {
		n++
	}

	for !isPrime(n) {
		n += 2
	}

	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}

	if n%2 == 0 {
		return n == 2
	}

	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}

	return true
}
