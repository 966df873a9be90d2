package provider

import (
	"reflect"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	template := []string{"inference.py", "--face", "{frames}", "--audio", "{audio}", "--outfile", "{out}", "--checkpoint_path", "{model}", "--batch={batch}", "--mode", "{mode}", "{video}"}
	vars := Vars{Audio: "/tmp/a.wav", Frames: "/work/frames", Out: "/work/out", Model: "/models/wav2lip_gan.pth", Batch: 8, Mode: "sequential"}
	params := map[string]any{
		"resize_factor": uint64(2),
		"nosmooth":      true,
		"pads":          "0 10 0 0",
		"box":           []any{1, 2},
		"skip":          nil,
		"scale":         0.5,
	}

	got := BuildArgs(template, vars, params)
	want := []string{
		"inference.py", "--face", "/work/frames", "--audio", "/tmp/a.wav", "--outfile", "/work/out",
		"--checkpoint_path", "/models/wav2lip_gan.pth", "--batch=8", "--mode", "sequential", "/work/frames",
		"--nosmooth=true", "--pads=0 10 0 0", "--resize_factor=2", "--scale=0.5",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildArgs =\n%q\nwant\n%q", got, want)
	}
}

func TestParamArgs(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   []string
	}{
		{name: "nil", params: nil, want: nil},
		{name: "false", params: map[string]any{"static": false}, want: []string{"--static=false"}},
		{name: "large float", params: map[string]any{"fps": float64(1000000)}, want: []string{"--fps=1000000"}},
		{name: "int", params: map[string]any{"wav2lip_batch_size": 128}, want: []string{"--wav2lip_batch_size=128"}},
		{name: "nested map skipped", params: map[string]any{"opts": map[string]any{"a": 1}}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParamArgs(tt.params); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParamArgs = %q, want %q", got, tt.want)
			}
		})
	}
}
