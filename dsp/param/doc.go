// Package param provides lock-free, smoothed audio parameters.
//
// A Smoother holds an atomically published target that any goroutine may
// set, and a current value that the audio goroutine moves towards the target
// with a one-pole filter. Next and Skip chase the latest target. A block
// processor calls Latch once per block so every sample in the block sees the
// same target, then NextLatched (or SkipLatched) per sample.
//
// Ranged, Decibel, Frequency, Time and Percentage wrap a Smoother with value
// clamping, normalized [0, 1] mapping and unit conversions.
package param
