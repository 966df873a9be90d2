package provider

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

var (
	// ErrInvalidRegistry is returned for unreadable registry files.
	ErrInvalidRegistry = errors.New("provider: invalid registry")

	// ErrUnknownProvider is returned when a provider name is not in the
	// registry.
	ErrUnknownProvider = errors.New("provider: unknown provider")
)

// Frame exchange formats.
const (
	FormatPNG     = "png"
	FormatMsgpack = "msgpack"
)

// Provider describes one external lip-sync command.
type Provider struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`

	// ArgsTemplate is an alias of Args kept for older registry files.
	ArgsTemplate []string `yaml:"args_template,omitempty"`

	Params map[string]any    `yaml:"params,omitempty"`
	Env    map[string]string `yaml:"env,omitempty"`
	Dir    string            `yaml:"dir,omitempty"`

	// Frames is the exchange format, FormatPNG (default) or FormatMsgpack.
	Frames string `yaml:"frames,omitempty"`

	// NoFaceExitCode, when non-zero, is the exit code the command uses to
	// report that no face was found. Such runs yield an empty result
	// instead of an error.
	NoFaceExitCode int `yaml:"no_face_exit_code,omitempty"`
}

// Template returns the argument template.
func (p Provider) Template() []string {
	if len(p.Args) > 0 {
		return p.Args
	}
	return p.ArgsTemplate
}

// Format returns the frame exchange format with the default applied.
func (p Provider) Format() string {
	if p.Frames == "" {
		return FormatPNG
	}
	return p.Frames
}

// Validate checks the provider definition.
func (p Provider) Validate() error {
	if p.Command == "" {
		return errors.New("command is required")
	}
	switch p.Format() {
	case FormatPNG, FormatMsgpack:
	default:
		return fmt.Errorf("unknown frames format %q", p.Frames)
	}
	return nil
}

// Registry is a set of named providers.
type Registry struct {
	Providers map[string]Provider `yaml:"providers"`
}

// LoadRegistry reads a registry file.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no registry path", ErrInvalidRegistry)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}
	r, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ParseRegistry parses a YAML or JSON registry. Both the
// {"providers": {...}} form and a flat {name: provider} map are accepted.
func ParseRegistry(data []byte) (*Registry, error) {
	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
	}
	if len(r.Providers) == 0 {
		var flat map[string]Provider
		if err := yaml.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRegistry, err)
		}
		delete(flat, "providers")
		r.Providers = flat
	}
	if r.Providers == nil {
		r.Providers = map[string]Provider{}
	}
	for name, p := range r.Providers {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: provider %q: %w", ErrInvalidRegistry, name, err)
		}
	}
	return &r, nil
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, error) {
	p, ok := r.Providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns the sorted provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Providers))
	for name := range r.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
