package pcm

import (
	"math"
	"time"
)

// L16Mono16K represents audio/L16; rate=16000; channels=1
const L16Mono16K Format = 0

// Format represents an audio format configuration.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	}
	panic("pcm: invalid audio type")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K:
		return 1
	}
	panic("pcm: invalid audio type")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Mono16K:
		return 16
	}
	panic("pcm: invalid audio type")
}

// Bytes returns the number of bytes occupied by the given number of samples.
func (f Format) Bytes(samples int64) int64 {
	return samples * int64(f.Channels()) * int64(f.Depth()) / 8
}

// SampleDuration returns the playback duration of the given sample count.
func (f Format) SampleDuration(samples int) time.Duration {
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate())
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case L16Mono16K:
		return "audio/L16; rate=16000; channels=1"
	}
	panic("pcm: invalid audio type")
}

// ToL16 converts normalized float samples to signed 16-bit values.
// Values outside [-1, 1] are clamped.
func ToL16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		switch {
		case math.IsNaN(float64(s)):
			out[i] = 0
		case s >= 1:
			out[i] = 32767
		case s <= -1:
			out[i] = -32768
		default:
			out[i] = int16(s * 32767)
		}
	}
	return out
}
