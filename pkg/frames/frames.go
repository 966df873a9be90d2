package frames

import (
	"errors"
	"fmt"
)

// ErrUnsupportedImageType is returned for image values that match none of
// the recognized shapes.
var ErrUnsupportedImageType = errors.New("frames: unsupported image type")

// Frame is one RGB picture. Pix holds Height*Width*3 bytes in row-major
// order.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame returns a black frame of the given size.
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// At returns the RGB value of the pixel at (x, y).
func (f Frame) At(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set sets the RGB value of the pixel at (x, y).
func (f Frame) Set(x, y int, r, g, b uint8) {
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

func (f Frame) validate() error {
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrUnsupportedImageType, f.Width, f.Height)
	}
	if want := f.Width * f.Height * 3; len(f.Pix) != want {
		return fmt.Errorf("%w: frame %dx%d has %d bytes, want %d",
			ErrUnsupportedImageType, f.Width, f.Height, len(f.Pix), want)
	}
	return nil
}

// Sequence is an ordered list of equally sized frames.
type Sequence []Frame

// Size returns the frame size of the sequence, or zeros when it is empty.
func (s Sequence) Size() (width, height int) {
	if len(s) == 0 {
		return 0, 0
	}
	return s[0].Width, s[0].Height
}

// check verifies that every frame is well formed and of the same size.
func (s Sequence) check() error {
	w, h := s.Size()
	for i, f := range s {
		if err := f.validate(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if f.Width != w || f.Height != h {
			return fmt.Errorf("%w: frame %d is %dx%d, want %dx%d",
				ErrUnsupportedImageType, i, f.Width, f.Height, w, h)
		}
	}
	return nil
}

// Tensor is a dense float32 block in channel-last layout. Values are
// expected in [0, 1].
type Tensor struct {
	Shape []int
	Data  []float32
}

// Len returns the number of frames in the tensor: 1 for rank 3, the first
// dimension for rank 4, and 0 otherwise.
func (t Tensor) Len() int {
	switch len(t.Shape) {
	case 3:
		return 1
	case 4:
		return t.Shape[0]
	}
	return 0
}

// ByteTensor is a dense uint8 block in channel-last layout.
type ByteTensor struct {
	Shape []int
	Data  []uint8
}

// elements returns the product of the shape dimensions.
func elements(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
