// Package artifact manages single-use audio files handed to lip-sync
// engines. Each artifact is a uniquely named 16-bit PCM mono WAV file that
// is removed when the surrounding operation ends, whatever its outcome.
package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/noliv3/videoaudio/pkg/audio/pcm"
)

// Prefix is the file name prefix of every artifact.
const Prefix = "lipsync-"

// Manager creates artifacts inside a directory.
type Manager struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report release failures.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager returns a Manager rooted at dir. An empty dir means
// os.TempDir(). The directory is created if it does not exist.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	m := &Manager{dir: abs, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dir returns the directory artifacts are created in.
func (m *Manager) Dir() string { return m.dir }

// Acquire writes samples to a new artifact file. Samples must already be at
// the manager's sample rate. On error no file is left behind.
func (m *Manager) Acquire(samples []float32) (*Artifact, error) {
	path := filepath.Join(m.dir, Prefix+uuid.NewString()+".wav")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("artifact: create: %w", err)
	}
	a := &Artifact{path: path, logger: m.logger}
	if err := pcm.WriteWAV(f, pcm.L16Mono16K, samples); err != nil {
		f.Close()
		a.Release()
		return nil, fmt.Errorf("artifact: write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		a.Release()
		return nil, fmt.Errorf("artifact: close %s: %w", filepath.Base(path), err)
	}
	m.logger.Debug("artifact: acquired", "path", path, "samples", len(samples), "format", pcm.L16Mono16K)
	return a, nil
}

// With acquires an artifact for samples, calls fn with its path and
// releases the artifact when fn returns or panics.
func (m *Manager) With(samples []float32, fn func(path string) error) error {
	a, err := m.Acquire(samples)
	if err != nil {
		return err
	}
	defer a.Release()
	return fn(a.Path())
}

// Artifact is one acquired file.
type Artifact struct {
	path   string
	logger *slog.Logger
	once   sync.Once
}

// Path returns the absolute path of the file.
func (a *Artifact) Path() string { return a.path }

// Release removes the file. It is safe to call more than once and from
// several goroutines. Failures are logged, never returned.
func (a *Artifact) Release() {
	a.once.Do(func() {
		err := os.Remove(a.path)
		switch {
		case err == nil:
			a.logger.Debug("artifact: released", "path", a.path)
		case errors.Is(err, fs.ErrNotExist):
		default:
			a.logger.Warn("artifact: release failed", "path", a.path, "error", err)
		}
	})
}
