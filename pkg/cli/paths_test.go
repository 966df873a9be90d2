package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPaths_env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigDirEnv, dir)

	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths: %v", err)
	}
	if p.Dir != dir {
		t.Errorf("Dir = %q, want %q", p.Dir, dir)
	}
}

func TestDefaultPaths_userConfigDir(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")
	base, err := os.UserConfigDir()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths: %v", err)
	}
	if want := filepath.Join(base, AppName); p.Dir != want {
		t.Errorf("Dir = %q, want %q", p.Dir, want)
	}
}

func TestPaths_layout(t *testing.T) {
	root := t.TempDir()
	p := &Paths{Dir: root}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"config", p.ConfigFile(), filepath.Join(root, "config.yaml")},
		{"providers", p.ProvidersFile(), filepath.Join(root, "providers.yaml")},
		{"models", p.ModelsDir(), filepath.Join(root, "models")},
		{"model", p.DefaultModelPath(), filepath.Join(root, "models", "wav2lip_gan.pth")},
		{"work", p.WorkDir(), filepath.Join(root, "work")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestPaths_Ensure(t *testing.T) {
	p := &Paths{Dir: filepath.Join(t.TempDir(), "videoaudio")}
	if err := p.Ensure(); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	for _, dir := range []string{p.Dir, p.ModelsDir(), p.WorkDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}
