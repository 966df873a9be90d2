package resampler

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestLinear_passthrough(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		srcRate int
	}{
		{name: "same rate", samples: []float32{0.1, 0.2, 0.3}, srcRate: TargetRate},
		{name: "empty", samples: []float32{}, srcRate: 44100},
		{name: "nil", samples: nil, srcRate: 8000},
		{name: "single sample", samples: []float32{0.7}, srcRate: 22050},
		{name: "invalid rate", samples: []float32{0.1, 0.2}, srcRate: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToTarget(tt.samples, tt.srcRate)
			if len(got) != len(tt.samples) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.samples))
			}
			for i := range got {
				if got[i] != tt.samples[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.samples[i])
				}
			}
		})
	}
}

func TestLinear_upsampleDoubles(t *testing.T) {
	got := Linear([]float32{0, 1, 0}, 8000, 16000)
	// ceil(3*2) = 6 positions over [0, 2]: 0, 0.4, 0.8, 1.2, 1.6, 2.
	want := []float32{0, 0.4, 0.8, 0.8, 0.4, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLinear_downsampleToSingle(t *testing.T) {
	got := Linear([]float32{0.5, 0.25}, 48000, 16000)
	if len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("got %v, want [0.5]", got)
	}
}

func TestOutputLen(t *testing.T) {
	tests := []struct {
		n, src, want int
	}{
		{3, 8000, 6},
		{44100, 44100, 16000},
		{10, 44100, 4},
		{22050, 22050, 16000},
		{7, 48000, 3},
		{1000, 11025, 1452},
	}
	for _, tt := range tests {
		if got := OutputLen(tt.n, tt.src, TargetRate); got != tt.want {
			t.Errorf("OutputLen(%d, %d) = %d, want %d", tt.n, tt.src, got, tt.want)
		}
	}
}

func TestLinear_properties(t *testing.T) {
	rates := []int{8000, 11025, 22050, 24000, 32000, 44100, 48000, 96000}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 2000).Draw(t, "n")
		src := rapid.SampledFrom(rates).Draw(t, "src")
		samples := rapid.SliceOfN(rapid.Float32Range(-1, 1), n, n).Draw(t, "samples")

		out := ToTarget(samples, src)
		want := int(math.Ceil(float64(n) * TargetRate / float64(src)))
		if len(out) != want {
			t.Fatalf("len = %d, want ceil(%d*16000/%d) = %d", len(out), n, src, want)
		}
		if out[0] != samples[0] {
			t.Fatalf("first sample %v, want %v", out[0], samples[0])
		}
		if len(out) > 1 && out[len(out)-1] != samples[n-1] {
			t.Fatalf("last sample %v, want %v", out[len(out)-1], samples[n-1])
		}
		lo, hi := samples[0], samples[0]
		for _, s := range samples {
			lo = min(lo, s)
			hi = max(hi, s)
		}
		for i, s := range out {
			if s < lo-1e-6 || s > hi+1e-6 {
				t.Fatalf("sample %d = %v outside input range [%v, %v]", i, s, lo, hi)
			}
		}
	})
}

func TestLinear_identityAtTarget(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		samples := rapid.SliceOfN(rapid.Float32Range(-1, 1), 1, 4000).Draw(t, "samples")
		out := ToTarget(samples, TargetRate)
		if len(out) != len(samples) {
			t.Fatalf("len = %d, want %d", len(out), len(samples))
		}
		for i := range samples {
			if out[i] != samples[i] {
				t.Fatalf("sample %d = %v, want %v", i, out[i], samples[i])
			}
		}
	})
}

func TestLinear_deterministic(t *testing.T) {
	samples := make([]float32, 441)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 7))
	}
	a := Linear(samples, 44100, TargetRate)
	b := Linear(samples, 44100, TargetRate)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}
