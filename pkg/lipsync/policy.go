package lipsync

import (
	"errors"

	"github.com/noliv3/videoaudio/pkg/audio/waveform"
	"github.com/noliv3/videoaudio/pkg/frames"
)

var (
	// ErrMissingAudio is returned when no waveform can be read from the
	// audio input.
	ErrMissingAudio = waveform.ErrMissingAudio

	// ErrUnsupportedImageType is returned for image inputs of unknown
	// shape.
	ErrUnsupportedImageType = frames.ErrUnsupportedImageType

	// ErrNoFramesProduced is returned under PolicyError when the engine
	// produced no frames.
	ErrNoFramesProduced = errors.New("lipsync: no frames produced")
)

// Finalize maps an outcome to the frames handed back to the pipeline.
// Produced frames are converted to the native float form. Unavailable and
// failed outcomes, and empty ones under PolicyPassthrough, return original
// unmodified. Under PolicyError any call that ends without frames fails
// with ErrNoFramesProduced, including a passthrough of empty input.
func Finalize(o Outcome, original any, p Policy) (frames.Tensor, error) {
	strict := ParsePolicy(string(p)) == PolicyError
	switch o.Kind {
	case OutcomeProduced:
		return frames.FromUint8(o.Frames)
	case OutcomeEmpty:
		if strict {
			return frames.Tensor{}, ErrNoFramesProduced
		}
	}
	t, err := frames.Native(original)
	if err != nil {
		return frames.Tensor{}, err
	}
	if strict && frames.IsEmpty(t) {
		return frames.Tensor{}, ErrNoFramesProduced
	}
	return t, nil
}
