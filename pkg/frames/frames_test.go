package frames

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"pgregory.net/rapid"
)

func batch(n, h, w int) ByteTensor {
	b := ByteTensor{Shape: []int{n, h, w, 3}, Data: make([]uint8, n*h*w*3)}
	for i := range b.Data {
		b.Data[i] = uint8(i * 7)
	}
	return b
}

func TestRoundTrip_byteBatch(t *testing.T) {
	src := batch(2, 4, 4)
	seq, err := ToUint8(src)
	if err != nil {
		t.Fatalf("ToUint8: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("frames = %d, want 2", len(seq))
	}
	got, err := FromUint8(seq)
	if err != nil {
		t.Fatalf("FromUint8: %v", err)
	}
	want := []int{2, 4, 4, 3}
	for i, d := range want {
		if got.Shape[i] != d {
			t.Fatalf("shape = %v, want %v", got.Shape, want)
		}
	}
	for i, p := range src.Data {
		if math.Abs(float64(got.Data[i])-float64(p)/255) > 1e-6 {
			t.Fatalf("value %d = %v, want %v", i, got.Data[i], float64(p)/255)
		}
	}
}

func TestRoundTrip_property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 3).Draw(t, "n")
		h := rapid.IntRange(1, 5).Draw(t, "h")
		w := rapid.IntRange(1, 5).Draw(t, "w")
		data := rapid.SliceOfN(rapid.Uint8(), n*h*w*3, n*h*w*3).Draw(t, "data")

		seq, err := ToUint8(ByteTensor{Shape: []int{n, h, w, 3}, Data: data})
		if err != nil {
			t.Fatalf("ToUint8: %v", err)
		}
		native, err := FromUint8(seq)
		if err != nil {
			t.Fatalf("FromUint8: %v", err)
		}
		back, err := ToUint8(native)
		if err != nil {
			t.Fatalf("ToUint8(FromUint8): %v", err)
		}
		if len(back) != n {
			t.Fatalf("frames = %d, want %d", len(back), n)
		}
		for i := range back {
			if !bytes.Equal(back[i].Pix, seq[i].Pix) {
				t.Fatalf("frame %d differs after round trip", i)
			}
		}
	})
}

func TestToUint8_channelFirst(t *testing.T) {
	// One 2x2 frame stored as [1, 3, 2, 2]: all red, then green, then blue.
	src := Tensor{
		Shape: []int{1, 3, 2, 2},
		Data: []float32{
			1, 1, 1, 1,
			0, 0, 0, 0,
			0.5, 0.5, 0.5, 0.5,
		},
	}
	seq, err := ToUint8(src)
	if err != nil {
		t.Fatalf("ToUint8: %v", err)
	}
	if len(seq) != 1 || seq[0].Width != 2 || seq[0].Height != 2 {
		t.Fatalf("got %d frames of %dx%d", len(seq), seq[0].Width, seq[0].Height)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			r, g, b := seq[0].At(x, y)
			if r != 255 || g != 0 || b != 127 {
				t.Errorf("pixel (%d, %d) = %d,%d,%d, want 255,0,127", x, y, r, g, b)
			}
		}
	}
}

func TestToUint8_channelFirstWithFourColumns(t *testing.T) {
	// [1, 3, 2, 4]: three planes of 2x4, not a 3x2 RGBA block.
	src := Tensor{Shape: []int{1, 3, 2, 4}, Data: make([]float32, 24)}
	for i := 0; i < 8; i++ {
		src.Data[i] = 0.1
		src.Data[8+i] = 0.5
		src.Data[16+i] = 1
	}
	seq, err := ToUint8(src)
	if err != nil {
		t.Fatalf("ToUint8: %v", err)
	}
	if w, h := seq.Size(); w != 4 || h != 2 {
		t.Fatalf("size = %dx%d, want 4x2", w, h)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if r, g, b := seq[0].At(x, y); r != 25 || g != 127 || b != 255 {
				t.Errorf("pixel (%d, %d) = %d,%d,%d, want 25,127,255", x, y, r, g, b)
			}
		}
	}
}

func TestToUint8_ambiguousLayoutIsChannelLast(t *testing.T) {
	// [1, 3, 4, 3] could be either layout; it is read as 3x4 RGB.
	src := Tensor{Shape: []int{1, 3, 4, 3}, Data: make([]float32, 36)}
	seq, err := ToUint8(src)
	if err != nil {
		t.Fatalf("ToUint8: %v", err)
	}
	if w, h := seq.Size(); w != 4 || h != 3 {
		t.Fatalf("size = %dx%d, want 4x3", w, h)
	}
}

func TestToUint8_inputs(t *testing.T) {
	frame := NewFrame(2, 1)
	frame.Set(1, 0, 10, 20, 30)

	tests := []struct {
		name   string
		input  any
		frames int
	}{
		{name: "single frame tensor", input: Tensor{Shape: []int{1, 2, 3}, Data: make([]float32, 6)}, frames: 1},
		{name: "byte batch", input: batch(3, 1, 2), frames: 3},
		{name: "tensor pointer", input: &Tensor{Shape: []int{2, 1, 2, 3}, Data: make([]float32, 12)}, frames: 2},
		{name: "frame", input: frame, frames: 1},
		{name: "sequence", input: Sequence{frame, frame}, frames: 2},
		{name: "nested float64", input: [][][]float64{{{0, 0, 0}, {1, 1, 1}}}, frames: 1},
		{name: "nested batch", input: [][][][]uint8{{{{1, 2, 3}}}, {{{4, 5, 6}}}}, frames: 2},
		{name: "list of batches", input: []any{batch(2, 1, 2), frame, []any{frame}}, frames: 4},
		{name: "empty list", input: []any{}, frames: 0},
		{name: "empty batch", input: Tensor{Shape: []int{0, 2, 2, 3}}, frames: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := ToUint8(tt.input)
			if err != nil {
				t.Fatalf("ToUint8: %v", err)
			}
			if len(seq) != tt.frames {
				t.Fatalf("frames = %d, want %d", len(seq), tt.frames)
			}
		})
	}
}

func TestToUint8_listKeepsOrder(t *testing.T) {
	a, b := NewFrame(1, 1), NewFrame(1, 1)
	a.Set(0, 0, 1, 1, 1)
	b.Set(0, 0, 2, 2, 2)
	seq, err := ToUint8([]any{Sequence{a}, b, a})
	if err != nil {
		t.Fatalf("ToUint8: %v", err)
	}
	want := []uint8{1, 2, 1}
	for i, f := range seq {
		if r, _, _ := f.At(0, 0); r != want[i] {
			t.Errorf("frame %d red = %d, want %d", i, r, want[i])
		}
	}
}

func TestToUint8_unsupported(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{name: "nil", input: nil},
		{name: "string", input: "frames.png"},
		{name: "flat slice", input: []float32{1, 2, 3}},
		{name: "rank 2", input: Tensor{Shape: []int{2, 3}, Data: make([]float32, 6)}},
		{name: "rank 5", input: Tensor{Shape: []int{1, 1, 1, 1, 3}, Data: make([]float32, 3)}},
		{name: "shape mismatch", input: Tensor{Shape: []int{1, 2, 2, 3}, Data: make([]float32, 5)}},
		{name: "two channels", input: Tensor{Shape: []int{1, 2, 2}, Data: make([]float32, 4)}},
		{name: "ragged", input: [][][]float32{{{0, 0, 0}}, {{0, 0, 0}, {0, 0, 0}}}},
		{name: "mixed sizes", input: []any{NewFrame(1, 1), NewFrame(2, 2)}},
		{name: "unknown list item", input: []any{NewFrame(1, 1), 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToUint8(tt.input)
			if !errors.Is(err, ErrUnsupportedImageType) {
				t.Fatalf("err = %v, want ErrUnsupportedImageType", err)
			}
		})
	}
}

func TestToUint8_channels(t *testing.T) {
	gray, err := ToUint8(ByteTensor{Shape: []int{1, 1, 1}, Data: []uint8{90}})
	if err != nil {
		t.Fatalf("gray: %v", err)
	}
	if r, g, b := gray[0].At(0, 0); r != 90 || g != 90 || b != 90 {
		t.Errorf("gray = %d,%d,%d, want 90,90,90", r, g, b)
	}

	rgba, err := ToUint8(ByteTensor{Shape: []int{1, 1, 4}, Data: []uint8{1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("rgba: %v", err)
	}
	if r, g, b := rgba[0].At(0, 0); r != 1 || g != 2 || b != 3 {
		t.Errorf("rgba = %d,%d,%d, want 1,2,3", r, g, b)
	}
}

func TestFromUint8_mixedSizes(t *testing.T) {
	_, err := FromUint8(Sequence{NewFrame(1, 1), NewFrame(2, 1)})
	if !errors.Is(err, ErrUnsupportedImageType) {
		t.Fatalf("err = %v, want ErrUnsupportedImageType", err)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 127},
		{1, 255},
		{2, 255},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := quantize(tt.in); got != tt.want {
			t.Errorf("quantize(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFromUint8_empty(t *testing.T) {
	got, err := FromUint8(nil)
	if err != nil {
		t.Fatalf("FromUint8: %v", err)
	}
	if got.Len() != 0 || len(got.Data) != 0 {
		t.Fatalf("got %v frames, %d values", got.Len(), len(got.Data))
	}
	if len(got.Shape) != 4 || got.Shape[3] != 3 {
		t.Fatalf("shape = %v", got.Shape)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  bool
	}{
		{name: "nil", input: nil, want: true},
		{name: "empty sequence", input: Sequence{}, want: true},
		{name: "zero frames", input: Tensor{Shape: []int{0, 4, 4, 3}}, want: true},
		{name: "nil tensor pointer", input: (*Tensor)(nil), want: true},
		{name: "empty list", input: []any{}, want: true},
		{name: "black frame", input: Tensor{Shape: []int{1, 1, 1, 3}, Data: make([]float32, 3)}, want: false},
		{name: "one frame", input: Sequence{NewFrame(1, 1)}, want: false},
		{name: "unknown value", input: "x", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.input); got != tt.want {
				t.Errorf("IsEmpty = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNative(t *testing.T) {
	orig := Tensor{Shape: []int{1, 1, 1, 3}, Data: []float32{0.1, 0.2, 0.3}}
	got, err := Native(orig)
	if err != nil {
		t.Fatalf("Native: %v", err)
	}
	if &got.Data[0] != &orig.Data[0] {
		t.Error("float tensor was copied")
	}

	got, err = Native(ByteTensor{Shape: []int{1, 1, 3}, Data: []uint8{0, 255, 51}})
	if err != nil {
		t.Fatalf("Native(byte): %v", err)
	}
	if got.Data[1] != 1 || math.Abs(float64(got.Data[2])-0.2) > 1e-6 {
		t.Errorf("data = %v", got.Data)
	}

	if _, err := Native(42); !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("Native(42) err = %v", err)
	}
}

func TestNative_keepsFloatValues(t *testing.T) {
	frame := Tensor{Shape: []int{1, 1, 3}, Data: []float32{0.5, 0.25, 0.1}}
	want := []float32{0.5, 0.25, 0.1, 0.5, 0.25, 0.1}

	tests := []struct {
		name  string
		input any
	}{
		{name: "list of tensors", input: []any{frame, &frame}},
		{name: "nested float32", input: [][][][]float32{{{{0.5, 0.25, 0.1}}}, {{{0.5, 0.25, 0.1}}}}},
		{name: "nested float64", input: [][][][]float64{{{{0.5, 0.25, 0.1}}}, {{{0.5, 0.25, 0.1}}}}},
		{name: "list of nested frames", input: []any{[][][]float64{{{0.5, 0.25, 0.1}}}, []any{frame}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Native(tt.input)
			if err != nil {
				t.Fatalf("Native: %v", err)
			}
			if len(got.Shape) != 4 || got.Shape[0] != 2 || got.Shape[1] != 1 || got.Shape[2] != 1 || got.Shape[3] != 3 {
				t.Fatalf("shape = %v, want [2 1 1 3]", got.Shape)
			}
			for i, v := range want {
				if got.Data[i] != v {
					t.Fatalf("data = %v, want %v", got.Data, want)
				}
			}
		})
	}
}

func TestNative_stacking(t *testing.T) {
	frame := NewFrame(1, 1)
	frame.Set(0, 0, 255, 0, 51)

	got, err := Native([]any{frame, ByteTensor{Shape: []int{1, 1, 1}, Data: []uint8{255}}})
	if err != nil {
		t.Fatalf("Native: %v", err)
	}
	want := []float32{1, 0, 0.2, 1, 1, 1}
	for i, v := range want {
		if math.Abs(float64(got.Data[i]-v)) > 1e-6 {
			t.Fatalf("data = %v, want %v", got.Data, want)
		}
	}

	empty, err := Native([]any{})
	if err != nil {
		t.Fatalf("Native(empty): %v", err)
	}
	if empty.Len() != 0 || len(empty.Data) != 0 {
		t.Errorf("empty = %+v", empty)
	}

	if _, err := Native([]any{frame, NewFrame(2, 2)}); !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("mixed sizes err = %v", err)
	}
}

func TestPNG_roundTrip(t *testing.T) {
	f := NewFrame(3, 2)
	f.Set(0, 0, 255, 0, 0)
	f.Set(2, 1, 1, 2, 3)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, f); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	got, err := DecodePNG(&buf)
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if got.Width != 3 || got.Height != 2 || !bytes.Equal(got.Pix, f.Pix) {
		t.Fatalf("decoded frame differs: %+v", got)
	}
}

func TestPNGDir(t *testing.T) {
	seq, err := ToUint8(batch(12, 2, 2))
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "frames")
	ctx := context.Background()
	if err := WritePNGDir(ctx, dir, seq); err != nil {
		t.Fatalf("WritePNGDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_000011.png")); err != nil {
		t.Fatalf("missing last frame: %v", err)
	}
	// Non-PNG files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadPNGDir(ctx, dir)
	if err != nil {
		t.Fatalf("ReadPNGDir: %v", err)
	}
	if len(got) != len(seq) {
		t.Fatalf("frames = %d, want %d", len(got), len(seq))
	}
	for i := range seq {
		if !bytes.Equal(got[i].Pix, seq[i].Pix) {
			t.Errorf("frame %d differs", i)
		}
	}
}

func TestEncodePNG_invalidFrame(t *testing.T) {
	err := EncodePNG(&bytes.Buffer{}, Frame{Width: 2, Height: 2, Pix: make([]uint8, 3)})
	if !errors.Is(err, ErrUnsupportedImageType) {
		t.Fatalf("err = %v, want ErrUnsupportedImageType", err)
	}
}

func TestPack(t *testing.T) {
	seq, err := ToUint8(batch(3, 2, 5))
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalPack(seq)
	if err != nil {
		t.Fatalf("MarshalPack: %v", err)
	}
	got, err := UnmarshalPack(data)
	if err != nil {
		t.Fatalf("UnmarshalPack: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("frames = %d, want 3", len(got))
	}
	for i := range seq {
		if got[i].Width != 5 || got[i].Height != 2 || !bytes.Equal(got[i].Pix, seq[i].Pix) {
			t.Errorf("frame %d differs", i)
		}
	}

	if _, err := UnmarshalPack([]byte{0xc1}); !errors.Is(err, ErrInvalidPack) {
		t.Errorf("garbage err = %v, want ErrInvalidPack", err)
	}
}

func TestUnmarshalPack_lengthMismatch(t *testing.T) {
	data, err := msgpack.Marshal(&pack{Width: 2, Height: 2, Count: 2, Pix: make([]byte, 12)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalPack(data); !errors.Is(err, ErrInvalidPack) {
		t.Fatalf("err = %v, want ErrInvalidPack", err)
	}
}

func TestMarshalPack_invalidFrame(t *testing.T) {
	f := NewFrame(2, 2)
	f.Pix = f.Pix[:5]
	if _, err := MarshalPack(Sequence{f}); !errors.Is(err, ErrUnsupportedImageType) {
		t.Fatalf("err = %v, want ErrUnsupportedImageType", err)
	}
}
