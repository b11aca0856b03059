package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Only call this outside the audio callback.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// Widen converts host float32 samples into dst and returns the number converted.
func Widen(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}

	return n
}

// Narrow converts float64 samples back into a host float32 buffer and returns
// the number converted.
func Narrow(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i])
	}

	return n
}

// CopyChannels copies the first n frames of every channel in src into dst.
// Aliased channels (in-place processing) are left untouched.
func CopyChannels(dst, src [][]float32, n int) {
	for ch := range min(len(dst), len(src)) {
		d, s := dst[ch], src[ch]
		m := min(n, len(d), len(s))
		if m <= 0 || &d[0] == &s[0] {
			continue
		}

		copy(d[:m], s[:m])
	}
}
