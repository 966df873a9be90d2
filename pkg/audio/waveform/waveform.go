package waveform

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSampleRate is assumed when the input does not carry a usable rate.
const DefaultSampleRate = 16000

// ErrMissingAudio is returned when no waveform can be extracted.
var ErrMissingAudio = errors.New("waveform: no audio provided")

// Clip is canonical audio: mono float samples at a positive sample rate.
type Clip struct {
	SampleRate int
	Samples    []float32
}

// Map is the mapping form of an audio value.
type Map map[string]any

// Pair is the ordered-pair form of an audio value, e.g. {44100, samples}.
type Pair [2]any

// Source is the typed mapping form of an audio value.
type Source struct {
	SampleRate int
	Waveform   any
}

// Tensor is a dense float waveform block in row-major order, e.g.
// [batch, channels, samples].
type Tensor struct {
	Shape []int
	Data  []float32
}

// Canonicalize converts v into a Clip.
func Canonicalize(v any) (*Clip, error) {
	rate, wave, err := split(v)
	if err != nil {
		return nil, err
	}
	if wave == nil {
		return nil, ErrMissingAudio
	}
	samples, err := toMono(wave)
	if err != nil {
		return nil, err
	}
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	return &Clip{SampleRate: rate, Samples: samples}, nil
}

// split resolves the sample rate and the waveform of v. Mappings are
// checked before pairs, pairs before bare waveforms.
func split(v any) (int, any, error) {
	switch a := v.(type) {
	case nil:
		return 0, nil, ErrMissingAudio
	case Map:
		return splitMap(a)
	case map[string]any:
		return splitMap(a)
	case Source:
		return a.SampleRate, a.Waveform, nil
	case *Source:
		if a == nil {
			return 0, nil, ErrMissingAudio
		}
		return a.SampleRate, a.Waveform, nil
	case Pair:
		return splitPair(a[:])
	case []any:
		return splitPair(a)
	}
	return 0, v, nil
}

func splitMap(m map[string]any) (int, any, error) {
	rate, _ := positiveRate(m["sample_rate"])
	if rate == 0 {
		rate, _ = positiveRate(m["sampleRate"])
	}
	if wave, ok := m["waveform"]; ok {
		return rate, wave, nil
	}
	return rate, m["audio"], nil
}

func splitPair(items []any) (int, any, error) {
	if len(items) >= 2 {
		if rate, ok := positiveRate(items[0]); ok {
			return rate, items[1], nil
		}
		if rate, ok := positiveRate(items[1]); ok {
			return rate, items[0], nil
		}
	}
	if len(items) > 0 {
		return 0, items[0], nil
	}
	return 0, nil, ErrMissingAudio
}

// positiveRate reports whether v is a positive number and returns it
// truncated to an int.
func positiveRate(v any) (int, bool) {
	f, ok := number(v)
	if !ok || !(f > 0) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// number returns v as a float64 when it holds a Go numeric value.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// toMono flattens a waveform value into mono samples.
func toMono(wave any) ([]float32, error) {
	switch w := wave.(type) {
	case []float32:
		return append([]float32(nil), w...), nil
	case []float64:
		out := make([]float32, len(w))
		for i, s := range w {
			out[i] = float32(s)
		}
		return out, nil
	case []int16:
		out := make([]float32, len(w))
		for i, s := range w {
			out[i] = float32(s) / 32768
		}
		return out, nil
	case [][]float32:
		return averageRows(w)
	case [][]float64:
		rows := make([][]float32, len(w))
		for i, r := range w {
			rows[i] = make([]float32, len(r))
			for j, s := range r {
				rows[i][j] = float32(s)
			}
		}
		return averageRows(rows)
	case [][][]float32:
		var rows [][]float32
		for _, b := range w {
			rows = append(rows, b...)
		}
		return averageRows(rows)
	case Tensor:
		return w.mono()
	case *Tensor:
		if w == nil {
			return nil, ErrMissingAudio
		}
		return w.mono()
	case []any:
		var rows [][]float32
		if err := appendRows(&rows, w); err != nil {
			return nil, err
		}
		return averageRows(rows)
	}
	return nil, fmt.Errorf("%w: unsupported waveform type %T", ErrMissingAudio, wave)
}

// appendRows collects the sample rows of a decoded list waveform such as
// [0.1, 0.2] or [[0.1, 0.2], [0.3, 0.4]]. A list of numbers is one row;
// nested lists contribute their rows in order.
func appendRows(rows *[][]float32, list []any) error {
	if len(list) == 0 {
		*rows = append(*rows, []float32{})
		return nil
	}
	if _, ok := number(list[0]); ok {
		row := make([]float32, len(list))
		for i, v := range list {
			f, ok := number(v)
			if !ok {
				return fmt.Errorf("%w: sample %d is %T", ErrMissingAudio, i, v)
			}
			row[i] = float32(f)
		}
		*rows = append(*rows, row)
		return nil
	}
	for i, item := range list {
		switch x := item.(type) {
		case []any:
			if err := appendRows(rows, x); err != nil {
				return err
			}
		case []float32, []float64:
			row, err := toMono(x)
			if err != nil {
				return err
			}
			*rows = append(*rows, row)
		default:
			return fmt.Errorf("%w: row %d is %T", ErrMissingAudio, i, item)
		}
	}
	return nil
}

// averageRows averages equally long rows sample by sample. A single row is
// returned as is.
func averageRows(rows [][]float32) ([]float32, error) {
	if len(rows) == 0 {
		return []float32{}, nil
	}
	n := len(rows[0])
	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrMissingAudio, i, len(r), n)
		}
	}
	if len(rows) == 1 {
		return append([]float32(nil), rows[0]...), nil
	}
	out := make([]float32, n)
	for j := 0; j < n; j++ {
		var sum float64
		for _, r := range rows {
			sum += float64(r[j])
		}
		out[j] = float32(sum / float64(len(rows)))
	}
	return out, nil
}

// mono squeezes size-1 dimensions and averages all leading dimensions.
func (t Tensor) mono() ([]float32, error) {
	total := 1
	var dims []int
	for _, d := range t.Shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in shape %v", ErrMissingAudio, t.Shape)
		}
		total *= d
		if d != 1 {
			dims = append(dims, d)
		}
	}
	if len(t.Shape) == 0 {
		total = len(t.Data)
	}
	if total != len(t.Data) {
		return nil, fmt.Errorf("%w: shape %v does not match %d values", ErrMissingAudio, t.Shape, len(t.Data))
	}
	if len(dims) <= 1 {
		return append([]float32(nil), t.Data...), nil
	}

	n := dims[len(dims)-1]
	if n == 0 {
		return []float32{}, nil
	}
	rows := make([][]float32, 0, total/n)
	for off := 0; off < total; off += n {
		rows = append(rows, t.Data[off:off+n])
	}
	return averageRows(rows)
}
