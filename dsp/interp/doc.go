// Package interp provides the fractional-read kernels used by delay lines.
//
// Available methods, from cheapest to highest quality:
//
//   - [LinearInterp]: 2-point linear interpolation (the delay-line default)
//   - [Hermite4]:     4-point cubic Hermite
//
// The [Mode] enum lets [delay.Line] select the kernel at construction time.
package interp
