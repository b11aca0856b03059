// Package engine is the real-time facade of the reverb: it owns the feedback
// delay network, the smoothed parameters and the presets, and processes
// float32 host buffers block by block.
//
// Setters and getters are lock-free and may be called from any goroutine.
// ProcessBlock belongs to a single audio goroutine. Initialize, Reset and
// Clear must not run concurrently with ProcessBlock.
//
// A typical host:
//
//	e, err := engine.New(engine.WithLogger(logger))
//	if err != nil { ... }
//	if err := e.Initialize(48000, 512); err != nil { ... }
//	e.SetPreset(engine.Studio)
//
//	// audio callback
//	e.ProcessBlock(in, out, frames)
package engine
