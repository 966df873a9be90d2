package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/noliv3/videoaudio/pkg/cli"
)

func testPaths(t *testing.T) *cli.Paths {
	t.Helper()
	return &cli.Paths{Dir: filepath.Join(t.TempDir(), "videoaudio")}
}

func TestLoadFrom_missingFile(t *testing.T) {
	p := testPaths(t)
	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Engine != "exec" || cfg.Mode != "sequential" || cfg.BatchSize != 8 || cfg.OnNoFace != "passthrough" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.ModelPath != p.DefaultModelPath() || cfg.ProvidersFile != p.ProvidersFile() {
		t.Errorf("paths = %q, %q", cfg.ModelPath, cfg.ProvidersFile)
	}
	if _, err := os.Stat(p.ConfigFile()); !os.IsNotExist(err) {
		t.Errorf("LoadFrom created %s", p.ConfigFile())
	}
}

func TestLoadFrom_partialFile(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := "provider: wav2lip\nbatch_size: 16\ntimeout: 90s\n"
	if err := os.WriteFile(p.ConfigFile(), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Provider != "wav2lip" || cfg.BatchSize != 16 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Engine != "exec" || cfg.OnNoFace != "passthrough" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if d, err := cfg.TimeoutDuration(); err != nil || d != 90*time.Second {
		t.Errorf("TimeoutDuration = %v, %v", d, err)
	}
}

func TestLoadFrom_invalidYAML(t *testing.T) {
	p := testPaths(t)
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.ConfigFile(), []byte("mode: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFrom_invalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "batch too large", data: "batch_size: 500\n"},
		{name: "unknown mode", data: "mode: bogus\n"},
		{name: "unknown policy", data: "on_no_face: skip\n"},
		{name: "bad timeout", data: "timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPaths(t)
			if err := os.MkdirAll(p.Dir, 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(p.ConfigFile(), []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(p); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSave_roundTrip(t *testing.T) {
	p := testPaths(t)
	cfg := Default(p)
	cfg.Provider = "musetalk"
	cfg.OnNoFace = "error"
	cfg.Settings = map[string]string{"device": "cuda:1"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Provider != "musetalk" || got.OnNoFace != "error" || got.Settings["device"] != "cuda:1" {
		t.Errorf("reloaded = %+v", got)
	}
	if got.Path() != p.ConfigFile() {
		t.Errorf("Path = %q", got.Path())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "repetitive", modify: func(c *Config) { c.Mode = "repetitive" }},
		{name: "unknown mode", modify: func(c *Config) { c.Mode = "loop" }, wantErr: true},
		{name: "unknown policy", modify: func(c *Config) { c.OnNoFace = "skip" }, wantErr: true},
		{name: "batch too large", modify: func(c *Config) { c.BatchSize = 65 }, wantErr: true},
		{name: "batch zero", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: true},
		{name: "bad timeout", modify: func(c *Config) { c.Timeout = "soon" }, wantErr: true},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = "-1s" }, wantErr: true},
		{name: "no engine", modify: func(c *Config) { c.Engine = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(testPaths(t))
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngineConfig(t *testing.T) {
	p := testPaths(t)
	cfg := Default(p)
	cfg.Provider = "wav2lip"
	cfg.Settings = map[string]string{"work_dir": "/scratch", "device": "cpu"}

	ec := cfg.EngineConfig()
	if ec.Name != "exec" || ec.ModelPath != p.DefaultModelPath() {
		t.Errorf("EngineConfig = %+v", ec)
	}
	want := map[string]string{
		"provider":  "wav2lip",
		"providers": p.ProvidersFile(),
		"work_dir":  "/scratch",
		"device":    "cpu",
	}
	for k, v := range want {
		if ec.Settings[k] != v {
			t.Errorf("Settings[%q] = %q, want %q", k, ec.Settings[k], v)
		}
	}
}
