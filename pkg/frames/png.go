package frames

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// EncodePNG writes f as an opaque RGBA PNG.
func EncodePNG(w io.Writer, f Frame) error {
	if err := f.validate(); err != nil {
		return err
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for p := 0; p < f.Width*f.Height; p++ {
		copy(img.Pix[p*4:p*4+3], f.Pix[p*3:p*3+3])
		img.Pix[p*4+3] = 0xff
	}
	return png.Encode(w, img)
}

// DecodePNG reads a PNG image into an RGB frame. Alpha is discarded.
func DecodePNG(r io.Reader) (Frame, error) {
	img, err := png.Decode(r)
	if err != nil {
		return Frame{}, fmt.Errorf("frames: decode png: %w", err)
	}
	return FromImage(img), nil
}

// FromImage converts any image into an RGB frame. Alpha is discarded.
func FromImage(img image.Image) Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			f.Set(x, y, c.R, c.G, c.B)
		}
	}
	return f
}

// FrameName returns the file name of the i-th frame in a PNG directory.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%06d.png", i)
}

// WritePNGDir writes seq into dir as frame_000000.png, frame_000001.png, ...
func WritePNGDir(ctx context.Context, dir string, seq Sequence) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range seq {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writePNG(filepath.Join(dir, FrameName(i)), f)
		})
	}
	return g.Wait()
}

func writePNG(path string, f Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(out, f); err != nil {
		out.Close()
		return fmt.Errorf("frames: encode %s: %w", filepath.Base(path), err)
	}
	return out.Close()
}

// ReadPNGDir reads every *.png file in dir, ordered by file name.
func ReadPNGDir(ctx context.Context, dir string) (Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	seq := make(Sequence, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := readPNG(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			seq[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := seq.check(); err != nil {
		return nil, err
	}
	return seq, nil
}

func readPNG(path string) (Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return Frame{}, err
	}
	defer in.Close()
	return DecodePNG(in)
}
