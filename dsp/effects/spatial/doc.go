// Package spatial provides stereo image processing for reverb returns.
//
// CrossFeed blends each channel into the other and scales the mid/side
// balance, so a decorrelated stereo tail can be narrowed towards mono or
// widened past its natural spread.
package spatial
