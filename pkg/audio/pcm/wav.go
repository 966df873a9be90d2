package pcm

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when the input is not a readable WAV file.
var ErrInvalidWAV = errors.New("pcm: invalid wav file")

// wavePCM is the WAVE_FORMAT_PCM tag.
const wavePCM = 1

// WriteWAV encodes samples as a PCM WAV file in format f. Samples are
// normalized floats; values outside [-1, 1] are clamped.
func WriteWAV(w io.WriteSeeker, f Format, samples []float32) error {
	enc := wav.NewEncoder(w, f.SampleRate(), f.Depth(), f.Channels(), wavePCM)

	data := make([]int, len(samples))
	for i, s := range ToL16(samples) {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: f.Channels(),
			SampleRate:  f.SampleRate(),
		},
		Data:           data,
		SourceBitDepth: f.Depth(),
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("pcm: write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("pcm: finalize wav: %w", err)
	}
	return nil
}

// WAV is a decoded PCM WAV file.
type WAV struct {
	// SampleRate is the sample rate in Hz.
	SampleRate int

	// BitDepth is the source bit depth (8, 16, 24 or 32).
	BitDepth int

	// Channels holds one row of normalized samples per channel.
	Channels [][]float32
}

// Frames returns the number of samples per channel.
func (w *WAV) Frames() int {
	if len(w.Channels) == 0 {
		return 0
	}
	return len(w.Channels[0])
}

// ReadWAV decodes a PCM WAV file into per-channel normalized float rows.
func ReadWAV(r io.ReadSeeker) (*WAV, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("pcm: read wav: %w", err)
	}

	channels := int(dec.NumChans)
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidWAV, channels)
	}
	depth := int(dec.BitDepth)
	if depth <= 0 || depth > 32 {
		return nil, fmt.Errorf("%w: bit depth %d", ErrInvalidWAV, depth)
	}
	scale := float32(int64(1) << (depth - 1))

	frames := len(buf.Data) / channels
	rows := make([][]float32, channels)
	for c := range rows {
		rows[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			v := buf.Data[i*channels+c]
			if depth == 8 {
				// 8-bit WAV is unsigned.
				v -= 128
			}
			rows[c][i] = float32(v) / scale
		}
	}

	return &WAV{
		SampleRate: int(dec.SampleRate),
		BitDepth:   depth,
		Channels:   rows,
	}, nil
}
