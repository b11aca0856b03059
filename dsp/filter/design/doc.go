// Package design provides RBJ-style biquad coefficient designers for the
// filters used inside and around the reverb: the low-cut stage of the
// feedback lines and the band filters of the measurement tests.
package design
