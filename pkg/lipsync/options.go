package lipsync

import "strings"

// Mode selects how an engine lines up audio with frames.
type Mode string

const (
	// ModeSequential plays frames once, in order.
	ModeSequential Mode = "sequential"

	// ModeRepetitive loops frames to cover the whole audio.
	ModeRepetitive Mode = "repetitive"
)

// ParseMode normalizes s. Unknown values map to ModeSequential.
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSequential, ModeRepetitive:
		return m
	}
	return ModeSequential
}

// Policy decides what happens when an engine returns no frames.
type Policy string

const (
	// PolicyPassthrough returns the original frames.
	PolicyPassthrough Policy = "passthrough"

	// PolicyError fails with ErrNoFramesProduced.
	PolicyError Policy = "error"
)

// ParsePolicy normalizes s. Unknown values map to PolicyPassthrough.
func ParsePolicy(s string) Policy {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPassthrough, PolicyError:
		return p
	}
	return PolicyPassthrough
}

// Batch size limits.
const (
	DefaultBatchSize = 8
	MinBatchSize     = 1
	MaxBatchSize     = 64
)

// ClampBatch bounds n to [MinBatchSize, MaxBatchSize]. Zero selects
// DefaultBatchSize.
func ClampBatch(n int) int {
	switch {
	case n == 0:
		return DefaultBatchSize
	case n < MinBatchSize:
		return MinBatchSize
	case n > MaxBatchSize:
		return MaxBatchSize
	}
	return n
}
