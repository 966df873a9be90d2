package frames

import (
	"fmt"
	"log/slog"
)

type sample interface {
	~uint8 | ~float32 | ~float64
}

// ToUint8 converts an image value into a canonical Sequence. Frame and
// Sequence inputs are passed through without copying their pixels.
func ToUint8(v any) (Sequence, error) {
	seq := Sequence{}
	if err := appendValue(&seq, v); err != nil {
		return nil, err
	}
	if err := seq.check(); err != nil {
		return nil, err
	}
	return seq, nil
}

func appendValue(dst *Sequence, v any) error {
	switch x := v.(type) {
	case Tensor:
		return appendBlock(dst, x.Shape, x.Data)
	case *Tensor:
		if x != nil {
			return appendBlock(dst, x.Shape, x.Data)
		}
	case ByteTensor:
		return appendBlock(dst, x.Shape, x.Data)
	case *ByteTensor:
		if x != nil {
			return appendBlock(dst, x.Shape, x.Data)
		}
	case Frame:
		*dst = append(*dst, x)
		return nil
	case Sequence:
		*dst = append(*dst, x...)
		return nil
	case []Frame:
		*dst = append(*dst, x...)
		return nil
	case [][][]float32:
		return appendNested3(dst, x)
	case [][][]float64:
		return appendNested3(dst, x)
	case [][][]uint8:
		return appendNested3(dst, x)
	case [][][][]float32:
		return appendNested4(dst, x)
	case [][][][]float64:
		return appendNested4(dst, x)
	case [][][][]uint8:
		return appendNested4(dst, x)
	case []any:
		for i, item := range x {
			if err := appendValue(dst, item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedImageType, v)
}

// appendBlock appends the frames of a rank-3 or rank-4 block.
func appendBlock[T sample](dst *Sequence, shape []int, data []T) error {
	return splitBlock(shape, data, func(h, w, c int, px []T) error {
		f, err := frameFrom(h, w, c, px)
		if err != nil {
			return err
		}
		*dst = append(*dst, f)
		return nil
	})
}

// splitBlock validates a rank-3 or rank-4 block, converts channel-first
// batches to channel-last and calls fn with the values of each frame.
func splitBlock[T sample](shape []int, data []T, fn func(h, w, c int, px []T) error) error {
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("%w: negative dimension in shape %v", ErrUnsupportedImageType, shape)
		}
	}
	if elements(shape) != len(data) {
		return fmt.Errorf("%w: shape %v does not match %d values", ErrUnsupportedImageType, shape, len(data))
	}

	switch len(shape) {
	case 3:
		return fn(shape[0], shape[1], shape[2], data)
	case 4:
		if channelFirst(shape) {
			data = toChannelLast(shape, data)
			shape = []int{shape[0], shape[2], shape[3], shape[1]}
		}
		n, h, w, c := shape[0], shape[1], shape[2], shape[3]
		stride := h * w * c
		for i := 0; i < n; i++ {
			if err := fn(h, w, c, data[i*stride:(i+1)*stride]); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: rank %d block", ErrUnsupportedImageType, len(shape))
}

// channelFirst reports whether a rank-4 shape should be read as
// [frames, channels, height, width]. A block whose last axis is also 1 or 3
// stays channel-last; the 3-channel case is logged as ambiguous.
func channelFirst(shape []int) bool {
	if shape[1] != 1 && shape[1] != 3 {
		return false
	}
	if shape[3] == 1 || shape[3] == 3 {
		if shape[1] == 3 {
			slog.Warn("frames: ambiguous channel layout, reading block as channel-last", "shape", shape)
		}
		return false
	}
	return true
}

// toChannelLast transposes [n, c, h, w] data to [n, h, w, c].
func toChannelLast[T sample](shape []int, data []T) []T {
	n, c, h, w := shape[0], shape[1], shape[2], shape[3]
	out := make([]T, len(data))
	plane := h * w
	for i := 0; i < n; i++ {
		src := data[i*c*plane : (i+1)*c*plane]
		dst := out[i*c*plane : (i+1)*c*plane]
		for ch := 0; ch < c; ch++ {
			for p := 0; p < plane; p++ {
				dst[p*c+ch] = src[ch*plane+p]
			}
		}
	}
	return out
}

// frameFrom builds an RGB frame from h*w*c channel-last values. Grayscale
// is replicated to three channels and alpha is dropped.
func frameFrom[T sample](h, w, c int, data []T) (Frame, error) {
	if c != 1 && c != 3 && c != 4 {
		return Frame{}, fmt.Errorf("%w: %d channels", ErrUnsupportedImageType, c)
	}
	f := NewFrame(w, h)
	bytes, isBytes := any(data).([]uint8)
	for p := 0; p < h*w; p++ {
		for ch := 0; ch < 3; ch++ {
			src := p*c + ch
			if c == 1 {
				src = p
			}
			if isBytes {
				f.Pix[p*3+ch] = bytes[src]
			} else {
				f.Pix[p*3+ch] = quantize(float64(data[src]))
			}
		}
	}
	return f, nil
}

// quantize maps a [0, 1] value to a byte: scaled by 255, clamped and
// truncated.
func quantize(v float64) uint8 {
	v *= 255
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func appendNested3[T sample](dst *Sequence, a [][][]T) error {
	shape, data, err := flatten3(a)
	if err != nil {
		return err
	}
	return appendBlock(dst, shape, data)
}

func appendNested4[T sample](dst *Sequence, a [][][][]T) error {
	shape, data, err := flatten4(a)
	if err != nil || shape == nil {
		return err
	}
	return appendBlock(dst, shape, data)
}

// flatten4 flattens a [n][h][w][c] nested array. An empty batch yields a
// nil shape.
func flatten4[T sample](a [][][][]T) ([]int, []T, error) {
	if len(a) == 0 {
		return nil, nil, nil
	}
	var (
		shape []int
		data  []T
	)
	for i, frame := range a {
		s, d, err := flatten3(frame)
		if err != nil {
			return nil, nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if shape == nil {
			shape = s
			data = make([]T, 0, len(a)*len(d))
		} else if s[0] != shape[0] || s[1] != shape[1] || s[2] != shape[2] {
			return nil, nil, fmt.Errorf("%w: frame %d shape %v, want %v", ErrUnsupportedImageType, i, s, shape)
		}
		data = append(data, d...)
	}
	return []int{len(a), shape[0], shape[1], shape[2]}, data, nil
}

// flatten3 flattens a [h][w][c] nested array, rejecting ragged input.
func flatten3[T sample](a [][][]T) ([]int, []T, error) {
	h := len(a)
	w, c := 0, 0
	if h > 0 {
		w = len(a[0])
		if w > 0 {
			c = len(a[0][0])
		}
	}
	data := make([]T, 0, h*w*c)
	for y, row := range a {
		if len(row) != w {
			return nil, nil, fmt.Errorf("%w: ragged row %d", ErrUnsupportedImageType, y)
		}
		for x, px := range row {
			if len(px) != c {
				return nil, nil, fmt.Errorf("%w: ragged pixel (%d, %d)", ErrUnsupportedImageType, x, y)
			}
			data = append(data, px...)
		}
	}
	return []int{h, w, c}, data, nil
}
