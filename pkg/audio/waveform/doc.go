// Package waveform normalizes loosely shaped audio values into a single
// mono clip with a known sample rate.
//
// Hosts hand audio over in several shapes. Canonicalize recognizes a closed
// set of them, checked in this order:
//
//  1. Mappings: Map, map[string]any or Source. The rate is read from
//     "sample_rate" or "sampleRate", the waveform from "waveform" or, when
//     that key is absent, "audio".
//  2. Ordered pairs: Pair or []any. Whichever of the first two elements is
//     a positive number is the rate and the other one is the waveform; with
//     no numeric element the first element is the waveform.
//  3. Bare waveforms: []float32, []float64, []int16, nested float rows, or
//     a Tensor.
//
// Multi-row waveforms are averaged to mono. A missing or non-positive rate
// falls back to DefaultSampleRate.
package waveform
