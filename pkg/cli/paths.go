package cli

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the directory name under os.UserConfigDir().
	AppName = "videoaudio"

	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "VIDEOAUDIO_CONFIG_DIR"

	// DefaultConfigFile is the configuration filename.
	DefaultConfigFile = "config.yaml"

	// DefaultProvidersFile is the provider registry filename.
	DefaultProvidersFile = "providers.yaml"

	// DefaultModel is the model file looked up in ModelsDir.
	DefaultModel = "wav2lip_gan.pth"
)

// Paths is the videoaudio directory layout:
//
//	videoaudio/
//	├── config.yaml
//	├── providers.yaml
//	├── models/
//	│   └── wav2lip_gan.pth
//	└── work/
type Paths struct {
	// Dir is the root configuration directory.
	Dir string
}

// DefaultPaths returns the layout rooted at $VIDEOAUDIO_CONFIG_DIR, or at
// os.UserConfigDir()/videoaudio when it is unset.
func DefaultPaths() (*Paths, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return &Paths{Dir: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine config directory: %w", err)
	}
	return &Paths{Dir: filepath.Join(base, AppName)}, nil
}

// ConfigFile returns the config file path.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.Dir, DefaultConfigFile)
}

// ProvidersFile returns the default provider registry path.
func (p *Paths) ProvidersFile() string {
	return filepath.Join(p.Dir, DefaultProvidersFile)
}

// ModelsDir returns the model directory.
func (p *Paths) ModelsDir() string {
	return filepath.Join(p.Dir, "models")
}

// DefaultModelPath returns the path of the default model file.
func (p *Paths) DefaultModelPath() string {
	return filepath.Join(p.ModelsDir(), DefaultModel)
}

// WorkDir returns the scratch directory for engine runs.
func (p *Paths) WorkDir() string {
	return filepath.Join(p.Dir, "work")
}

// Ensure creates the root, models and work directories.
func (p *Paths) Ensure() error {
	for _, dir := range []string{p.Dir, p.ModelsDir(), p.WorkDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
