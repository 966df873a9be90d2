package frames

// FromUint8 stacks frames in order into a [frames, height, width, 3] tensor
// normalized to [0, 1]. An empty sequence yields a tensor with zero frames.
// Frames of different sizes are rejected with ErrUnsupportedImageType.
func FromUint8(seq Sequence) (Tensor, error) {
	if err := seq.check(); err != nil {
		return Tensor{}, err
	}
	w, h := seq.Size()
	t := Tensor{
		Shape: []int{len(seq), h, w, 3},
		Data:  make([]float32, len(seq)*h*w*3),
	}
	off := 0
	for _, f := range seq {
		for _, p := range f.Pix {
			t.Data[off] = float32(p) / 255
			off++
		}
	}
	return t, nil
}

// FromByteTensor divides a byte block by 255, keeping its shape.
func FromByteTensor(b ByteTensor) Tensor {
	t := Tensor{
		Shape: append([]int(nil), b.Shape...),
		Data:  make([]float32, len(b.Data)),
	}
	for i, p := range b.Data {
		t.Data[i] = float32(p) / 255
	}
	return t
}

// Native returns v in the pipeline's native float representation. Float
// tensors are returned as they are. Every other value is stacked into a
// [frames, height, width, 3] tensor: float values are copied unchanged and
// only byte values are divided by 255.
func Native(v any) (Tensor, error) {
	switch x := v.(type) {
	case Tensor:
		return x, nil
	case *Tensor:
		if x != nil {
			return *x, nil
		}
	case ByteTensor:
		return FromByteTensor(x), nil
	case *ByteTensor:
		if x != nil {
			return FromByteTensor(*x), nil
		}
	}
	var s stack
	if err := s.add(v); err != nil {
		return Tensor{}, err
	}
	return s.tensor(), nil
}

// IsEmpty reports whether v structurally holds no frames: nil, a
// zero-length collection, or a block with zero elements. Pixel values are
// not inspected, so an all-black block is not empty.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case Tensor:
		return len(x.Data) == 0 || elements(x.Shape) == 0
	case *Tensor:
		return x == nil || len(x.Data) == 0 || elements(x.Shape) == 0
	case ByteTensor:
		return len(x.Data) == 0 || elements(x.Shape) == 0
	case *ByteTensor:
		return x == nil || len(x.Data) == 0 || elements(x.Shape) == 0
	case Frame:
		return len(x.Pix) == 0
	case Sequence:
		return len(x) == 0
	case []Frame:
		return len(x) == 0
	case [][][]float32:
		return len(x) == 0
	case [][][]float64:
		return len(x) == 0
	case [][][]uint8:
		return len(x) == 0
	case [][][][]float32:
		return len(x) == 0
	case [][][][]float64:
		return len(x) == 0
	case [][][][]uint8:
		return len(x) == 0
	case []any:
		return len(x) == 0
	}
	return false
}
