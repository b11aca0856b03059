// Package core holds the small numeric and configuration helpers shared by
// the reverb building blocks: clamping, denormal flushing, dB conversion,
// processor configuration and host buffer conversion.
package core
