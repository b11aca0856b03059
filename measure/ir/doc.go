// Package ir analyses room and reverberator impulse responses.
//
// Broadband decay: Schroeder backward integration, EDT, T20, T30 and RT60.
// Energy ratios: clarity (C50/C80), definition (D50/D80) and centre time.
// Envelopes: windowed RMS level and tail length above a threshold.
// Bands: per-octave RT60 from a short-time Fourier transform, which shows
// frequency-dependent damping in a reverb tail.
//
// Every function expects a mono impulse response starting at or shortly
// before the direct sound.
package ir
