package frames

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrInvalidPack is returned when a frame pack cannot be decoded.
var ErrInvalidPack = errors.New("frames: invalid frame pack")

// pack is the msgpack layout of a sequence: frames are concatenated RGB
// planes of identical size.
type pack struct {
	Width  int    `msgpack:"width"`
	Height int    `msgpack:"height"`
	Count  int    `msgpack:"count"`
	Pix    []byte `msgpack:"pix"`
}

// MarshalPack encodes seq as a msgpack frame pack.
func MarshalPack(seq Sequence) ([]byte, error) {
	if err := seq.check(); err != nil {
		return nil, err
	}
	w, h := seq.Size()
	p := pack{Width: w, Height: h, Count: len(seq), Pix: make([]byte, 0, len(seq)*w*h*3)}
	for _, f := range seq {
		p.Pix = append(p.Pix, f.Pix...)
	}
	return msgpack.Marshal(&p)
}

// UnmarshalPack decodes a msgpack frame pack.
func UnmarshalPack(data []byte) (Sequence, error) {
	var p pack
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if p.Width < 0 || p.Height < 0 || p.Count < 0 {
		return nil, fmt.Errorf("%w: %dx%d x %d", ErrInvalidPack, p.Width, p.Height, p.Count)
	}
	stride := p.Width * p.Height * 3
	if len(p.Pix) != stride*p.Count {
		return nil, fmt.Errorf("%w: %d bytes for %d frames of %dx%d", ErrInvalidPack, len(p.Pix), p.Count, p.Width, p.Height)
	}
	seq := make(Sequence, p.Count)
	for i := range seq {
		seq[i] = Frame{Width: p.Width, Height: p.Height, Pix: p.Pix[i*stride : (i+1)*stride]}
	}
	return seq, nil
}
