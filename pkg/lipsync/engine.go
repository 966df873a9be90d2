package lipsync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/noliv3/videoaudio/pkg/frames"
)

var (
	// ErrEngineUnavailable is reported when no engine could be resolved.
	ErrEngineUnavailable = errors.New("lipsync: engine unavailable")

	// ErrEngineNotRegistered is returned for unknown engine names.
	ErrEngineNotRegistered = errors.New("lipsync: engine not registered")
)

// Request is one engine call.
type Request struct {
	// Frames are the canonical input frames. Engines must not modify them.
	Frames frames.Sequence

	// AudioPath is a 16 kHz 16-bit mono WAV file, valid for the duration
	// of the call.
	AudioPath string

	BatchSize int
	Mode      Mode
	ModelPath string
}

// Engine produces lip-synced frames.
//
// Sync returns a frame collection or a tensor-like block in any shape
// accepted by [frames.ToUint8]. A nil or empty result means no face was
// found.
type Engine interface {
	Sync(ctx context.Context, req *Request) (any, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, req *Request) (any, error)

// Sync calls f.
func (f EngineFunc) Sync(ctx context.Context, req *Request) (any, error) {
	return f(ctx, req)
}

// EngineConfig selects and configures a registered engine.
type EngineConfig struct {
	Name      string            `yaml:"name" json:"name"`
	ModelPath string            `yaml:"model_path,omitempty" json:"model_path,omitempty"`
	Settings  map[string]string `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// Factory builds an engine from its configuration.
type Factory func(cfg EngineConfig) (Engine, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// RegisterEngine registers a factory under name, replacing any previous
// registration. Typically called from init().
func RegisterEngine(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// LookupEngine returns the factory registered under name.
func LookupEngine(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Engines returns the sorted names of all registered engines.
func Engines() []string {
	registryMu.RLock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	registryMu.RUnlock()
	sort.Strings(names)
	return names
}

// NewEngine builds the engine registered under cfg.Name.
func NewEngine(cfg EngineConfig) (Engine, error) {
	f, ok := LookupEngine(cfg.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEngineNotRegistered, cfg.Name)
	}
	e, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("lipsync: engine %q: %w", cfg.Name, err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %q returned no engine", ErrEngineUnavailable, cfg.Name)
	}
	return e, nil
}
