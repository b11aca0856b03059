// Package biquad provides second-order IIR filter sections.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Coefficient design lives in
// dsp/filter/design.
package biquad
