// Package reverb implements a feedback delay network (FDN) reverberator and
// its building blocks.
//
// Signal path per sample:
//
//	input → pre-delay → early reflections → diffusion → (+) → delay lines
//	                                                     ↑         │
//	                                                 low cut ← damping ← feedback matrix
//
// The feedback matrix is orthogonal (a Householder reflection) and
// each column is scaled by the decay gain of the line that feeds it, so every
// mode of the network decays at the requested RT60.
//
// Nothing in the per-sample path allocates. Setters clamp their input.
// An FDN is not safe for concurrent use.
package reverb
