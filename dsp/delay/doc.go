// Package delay provides fixed-capacity circular delay lines with fractional
// reads, and an LFO-modulated variant for decorrelation.
//
// Lines never allocate after construction and clamp every delay request into
// their valid range, so control input can be forwarded from the audio thread
// without validation.
package delay
