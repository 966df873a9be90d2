// Package config loads the videoaudio CLI configuration.
//
// Configuration is stored under os.UserConfigDir()/videoaudio/, or under
// $VIDEOAUDIO_CONFIG_DIR when set:
//
//	videoaudio/
//	├── config.yaml      # this package
//	├── providers.yaml   # external command registry, see package provider
//	├── models/
//	└── work/
//
// A missing config.yaml is not an error; defaults are used.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/noliv3/videoaudio/pkg/cli"
	"github.com/noliv3/videoaudio/pkg/lipsync"
	"github.com/noliv3/videoaudio/pkg/lipsync/provider"
)

// Config is the content of config.yaml.
type Config struct {
	// Engine is the registered engine name.
	Engine string `yaml:"engine" json:"engine"`

	// Provider is the provider name passed to the exec engine.
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`

	// ProvidersFile is the provider registry path.
	ProvidersFile string `yaml:"providers_file,omitempty" json:"providers_file,omitempty"`

	// ModelPath is passed to the engine on every call.
	ModelPath string `yaml:"model_path,omitempty" json:"model_path,omitempty"`

	Mode      string `yaml:"mode" json:"mode"`
	BatchSize int    `yaml:"batch_size" json:"batch_size"`
	OnNoFace  string `yaml:"on_no_face" json:"on_no_face"`

	// TempDir holds audio artifacts. Empty means the OS temp dir.
	TempDir string `yaml:"temp_dir,omitempty" json:"temp_dir,omitempty"`

	// Timeout bounds each engine call, e.g. "10m". Empty means no limit.
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Settings are passed to the engine factory as is.
	Settings map[string]string `yaml:"settings,omitempty" json:"settings,omitempty"`

	paths *cli.Paths
}

// Default returns the configuration used when no file exists.
func Default(p *cli.Paths) *Config {
	return &Config{
		Engine:        provider.EngineName,
		ProvidersFile: p.ProvidersFile(),
		ModelPath:     p.DefaultModelPath(),
		Mode:          string(lipsync.ModeSequential),
		BatchSize:     lipsync.DefaultBatchSize,
		OnNoFace:      string(lipsync.PolicyPassthrough),
		paths:         p,
	}
}

// Load loads the configuration from the default location.
func Load() (*Config, error) {
	p, err := cli.DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(p)
}

// LoadFrom loads config.yaml from the given layout. Fields missing from the
// file keep their defaults; the result must pass Validate.
func LoadFrom(p *cli.Paths) (*Config, error) {
	cfg := Default(p)
	data, err := os.ReadFile(p.ConfigFile())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.ConfigFile(), err)
	}
	cfg.paths = p
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", p.ConfigFile(), err)
	}
	return cfg, nil
}

// Path returns the config file path.
func (c *Config) Path() string { return c.paths.ConfigFile() }

// Save writes the configuration to config.yaml.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.Path()), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.Path(), data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects values the node would otherwise silently normalize.
func (c *Config) Validate() error {
	if c.Engine == "" {
		return errors.New("engine is required")
	}
	if lipsync.ParseMode(c.Mode) != lipsync.Mode(c.Mode) {
		return fmt.Errorf("mode %q: want %q or %q", c.Mode, lipsync.ModeSequential, lipsync.ModeRepetitive)
	}
	if lipsync.ParsePolicy(c.OnNoFace) != lipsync.Policy(c.OnNoFace) {
		return fmt.Errorf("on_no_face %q: want %q or %q", c.OnNoFace, lipsync.PolicyPassthrough, lipsync.PolicyError)
	}
	if c.BatchSize < lipsync.MinBatchSize || c.BatchSize > lipsync.MaxBatchSize {
		return fmt.Errorf("batch_size %d: want %d..%d", c.BatchSize, lipsync.MinBatchSize, lipsync.MaxBatchSize)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q: must not be negative", c.Timeout)
	}
	return d, nil
}

// EngineConfig returns the engine selection for the lipsync registry.
// Provider, ProvidersFile and the work directory are added to Settings
// unless Settings already names them.
func (c *Config) EngineConfig() lipsync.EngineConfig {
	settings := map[string]string{
		"provider":  c.Provider,
		"providers": c.ProvidersFile,
		"work_dir":  c.paths.WorkDir(),
	}
	for k, v := range c.Settings {
		settings[k] = v
	}
	return lipsync.EngineConfig{
		Name:      c.Engine,
		ModelPath: c.ModelPath,
		Settings:  settings,
	}
}
