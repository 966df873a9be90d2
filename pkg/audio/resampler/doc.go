// Package resampler converts mono float audio between sample rates.
//
// Conversion is plain linear interpolation over uniformly spaced sample
// positions, so the output is fully determined by the input and the two
// rates:
//
//	n input samples at srcRate  ->  ceil(n*dstRate/srcRate) output samples
//
// The first and last output samples coincide with the first and last input
// samples. Inputs that are already at the destination rate, empty, or hold
// a single sample are returned unchanged.
//
// Example usage:
//
//	out := resampler.ToTarget(samples, 44100) // 16kHz
package resampler
