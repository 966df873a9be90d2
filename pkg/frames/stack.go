package frames

import "fmt"

// stack collects RGB frames in float form without a round trip through
// bytes.
type stack struct {
	width, height int
	count         int
	data          []float32
}

func (s *stack) add(v any) error {
	switch x := v.(type) {
	case Tensor:
		return addBlock(s, x.Shape, x.Data)
	case *Tensor:
		if x != nil {
			return addBlock(s, x.Shape, x.Data)
		}
	case ByteTensor:
		return addBlock(s, x.Shape, x.Data)
	case *ByteTensor:
		if x != nil {
			return addBlock(s, x.Shape, x.Data)
		}
	case Frame:
		return addBlock(s, []int{x.Height, x.Width, 3}, x.Pix)
	case Sequence:
		return s.addFrames(x)
	case []Frame:
		return s.addFrames(x)
	case [][][]float32:
		return addNested3(s, x)
	case [][][]float64:
		return addNested3(s, x)
	case [][][]uint8:
		return addNested3(s, x)
	case [][][][]float32:
		return addNested4(s, x)
	case [][][][]float64:
		return addNested4(s, x)
	case [][][][]uint8:
		return addNested4(s, x)
	case []any:
		for i, item := range x {
			if err := s.add(item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedImageType, v)
}

func (s *stack) addFrames(fs []Frame) error {
	for i, f := range fs {
		if err := f.validate(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := addBlock(s, []int{f.Height, f.Width, 3}, f.Pix); err != nil {
			return err
		}
	}
	return nil
}

// push appends one channel-last frame of c channels. Grayscale is
// replicated and alpha is dropped.
func push[T sample](s *stack, h, w, c int, px []T) error {
	if c != 1 && c != 3 && c != 4 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedImageType, c)
	}
	if s.count == 0 {
		s.width, s.height = w, h
	} else if w != s.width || h != s.height {
		return fmt.Errorf("%w: frame %d is %dx%d, want %dx%d",
			ErrUnsupportedImageType, s.count, w, h, s.width, s.height)
	}
	bytes, isBytes := any(px).([]uint8)
	for p := 0; p < h*w; p++ {
		for ch := 0; ch < 3; ch++ {
			src := p*c + ch
			if c == 1 {
				src = p
			}
			if isBytes {
				s.data = append(s.data, float32(bytes[src])/255)
			} else {
				s.data = append(s.data, float32(px[src]))
			}
		}
	}
	s.count++
	return nil
}

func addBlock[T sample](s *stack, shape []int, data []T) error {
	return splitBlock(shape, data, func(h, w, c int, px []T) error {
		return push(s, h, w, c, px)
	})
}

func addNested3[T sample](s *stack, a [][][]T) error {
	shape, data, err := flatten3(a)
	if err != nil {
		return err
	}
	return addBlock(s, shape, data)
}

func addNested4[T sample](s *stack, a [][][][]T) error {
	shape, data, err := flatten4(a)
	if err != nil || shape == nil {
		return err
	}
	return addBlock(s, shape, data)
}

func (s *stack) tensor() Tensor {
	return Tensor{
		Shape: []int{s.count, s.height, s.width, 3},
		Data:  s.data,
	}
}
