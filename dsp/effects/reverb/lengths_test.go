package reverb

import (
	"slices"
	"testing"
)

func TestDelayLengthsInvariants(t *testing.T) {
	for _, fs := range []float64{22050, 44100, 48000, 96000, 192000} {
		for _, n := range []int{4, 8, 12} {
			limit := maxDelayLength(n, fs)
			dst := make([]int, n)

			for step := 0; step <= 20; step++ {
				room := float64(step) / 20
				DelayLengths(dst, room, fs)

				for i, l := range dst {
					if !isPrime(l) {
						t.Fatalf("fs=%v n=%d room=%v: length %d not prime", fs, n, room, l)
					}

					if l < minDelaySamples {
						t.Fatalf("fs=%v n=%d room=%v: length %d below minimum", fs, n, room, l)
					}

					if l > limit {
						t.Fatalf("fs=%v n=%d room=%v: length %d above capacity bound %d", fs, n, room, l, limit)
					}

					if i > 0 && l <= dst[i-1] {
						t.Fatalf("fs=%v n=%d room=%v: lengths not increasing: %v", fs, n, room, dst)
					}
				}
			}
		}
	}
}

func TestDelayLengthsAt48k(t *testing.T) {
	tests := []struct {
		room float64
		want []int
	}{
		{0, []int{101, 107, 127, 131, 137, 149, 151, 163}},
		{0.5, []int{1213, 1289, 1409, 1487, 1597, 1721, 1811, 1931}},
		{1, []int{2411, 2579, 2819, 2999, 3169, 3433, 3623, 3847}},
	}

	for _, tt := range tests {
		got := make([]int, 8)
		DelayLengths(got, tt.room, 48000)

		if !slices.Equal(got, tt.want) {
			t.Fatalf("room %v: lengths = %v, want %v", tt.room, got, tt.want)
		}
	}
}

func TestDelayLengthsGrowWithRoom(t *testing.T) {
	small := make([]int, 8)
	large := make([]int, 8)

	DelayLengths(small, 0.2, 44100)
	DelayLengths(large, 0.8, 44100)

	for i := range small {
		if large[i] <= small[i] {
			t.Fatalf("line %d: room 0.8 length %d not above room 0.2 length %d", i, large[i], small[i])
		}
	}
}

func TestDelayLengthsZeroAllocs(t *testing.T) {
	dst := make([]int, 8)

	allocs := testing.AllocsPerRun(100, func() {
		DelayLengths(dst, 0.37, 44100)
	})
	if allocs != 0 {
		t.Fatalf("DelayLengths allocates %v times per call", allocs)
	}
}

func TestNextPrime(t *testing.T) {
	tests := map[int]int{0: 2, 2: 2, 3: 3, 4: 5, 90: 97, 97: 97, 1200: 1201}
	for in, want := range tests {
		if got := nextPrime(in); got != want {
			t.Fatalf("nextPrime(%d) = %d, want %d", in, got, want)
		}
	}
}
