package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/noliv3/videoaudio/pkg/frames"
	"github.com/noliv3/videoaudio/pkg/lipsync"
)

// EngineName is the name the exec engine is registered under.
const EngineName = "exec"

// MaxLogChars bounds how many characters of command output are logged per
// stream.
const MaxLogChars = 5000

// ErrNoOutput is returned when a command exits cleanly without writing
// any frames.
var ErrNoOutput = errors.New("provider: produced no output")

var commandContext = exec.CommandContext

func init() {
	lipsync.RegisterEngine(EngineName, newFromConfig)
}

func newFromConfig(cfg lipsync.EngineConfig) (lipsync.Engine, error) {
	reg, err := LoadRegistry(cfg.Settings["providers"])
	if err != nil {
		return nil, err
	}
	name := cfg.Settings["provider"]
	p, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	e, err := New(name, p, WithWorkDir(cfg.Settings["work_dir"]))
	if err != nil {
		return nil, err
	}
	if err := e.Available(); err != nil {
		return nil, err
	}
	return e, nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for command output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWorkDir sets the parent of per-call scratch directories. The
// default is os.TempDir().
func WithWorkDir(dir string) Option {
	return func(e *Engine) {
		if dir != "" {
			e.workDir = dir
		}
	}
}

// Engine runs a provider command once per Sync call.
type Engine struct {
	name     string
	provider Provider
	logger   *slog.Logger
	workDir  string
}

// New returns an engine for provider p.
func New(name string, p Provider, opts ...Option) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("provider %q: %w", name, err)
	}
	e := &Engine{
		name:     name,
		provider: p,
		logger:   slog.Default(),
		workDir:  os.TempDir(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Name returns the provider name.
func (e *Engine) Name() string { return e.name }

// Available reports whether the provider command can be found.
func (e *Engine) Available() error {
	if _, err := exec.LookPath(e.provider.Command); err != nil {
		return fmt.Errorf("provider %q: %w", e.name, err)
	}
	return nil
}

// Sync exports the request frames, runs the command and reads its frames
// back. The scratch directory is removed before Sync returns.
func (e *Engine) Sync(ctx context.Context, req *lipsync.Request) (any, error) {
	work := filepath.Join(e.workDir, "lipsync-work-"+uuid.NewString())
	if err := os.MkdirAll(work, 0o700); err != nil {
		return nil, fmt.Errorf("provider %q: work dir: %w", e.name, err)
	}
	defer func() {
		if err := os.RemoveAll(work); err != nil {
			e.logger.Warn("provider: remove work dir failed", "path", work, "error", err)
		}
	}()

	vars := Vars{
		Audio: req.AudioPath,
		Model: req.ModelPath,
		Batch: req.BatchSize,
		Mode:  string(req.Mode),
	}
	if err := e.export(ctx, work, req.Frames, &vars); err != nil {
		return nil, fmt.Errorf("provider %q: export frames: %w", e.name, err)
	}

	args := BuildArgs(e.provider.Template(), vars, e.provider.Params)
	cmd := commandContext(ctx, e.provider.Command, args...)
	cmd.Dir = e.provider.Dir
	cmd.Env = append(cmd.Environ(), e.env()...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("provider: running", "provider", e.name, "command", e.provider.Command, "args", args)
	runErr := cmd.Run()
	e.logStream("stdout", stdout.String())
	e.logStream("stderr", stderr.String())

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) && e.provider.NoFaceExitCode != 0 &&
			exitErr.ExitCode() == e.provider.NoFaceExitCode {
			e.logger.Info("provider: no face detected", "provider", e.name)
			return nil, nil
		}
		return nil, fmt.Errorf("provider %q: %w", e.name, runErr)
	}
	seq, err := e.collect(ctx, vars.Out)
	if err != nil {
		return nil, fmt.Errorf("provider %q: %w", e.name, err)
	}
	return seq, nil
}

// export writes seq in the provider's format and fills in the frame and
// output paths of vars.
func (e *Engine) export(ctx context.Context, work string, seq frames.Sequence, vars *Vars) error {
	switch e.provider.Format() {
	case FormatMsgpack:
		data, err := frames.MarshalPack(seq)
		if err != nil {
			return err
		}
		vars.Frames = filepath.Join(work, "frames.msgpack")
		vars.Out = filepath.Join(work, "out.msgpack")
		return os.WriteFile(vars.Frames, data, 0o600)
	default:
		vars.Frames = filepath.Join(work, "frames")
		vars.Out = filepath.Join(work, "out")
		if err := os.MkdirAll(vars.Out, 0o700); err != nil {
			return err
		}
		return frames.WritePNGDir(ctx, vars.Frames, seq)
	}
}

func (e *Engine) collect(ctx context.Context, out string) (frames.Sequence, error) {
	switch e.provider.Format() {
	case FormatMsgpack:
		data, err := os.ReadFile(out)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoOutput
		}
		if err != nil {
			return nil, err
		}
		return frames.UnmarshalPack(data)
	default:
		seq, err := frames.ReadPNGDir(ctx, out)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, ErrNoOutput
			}
			return nil, err
		}
		if len(seq) == 0 {
			return nil, ErrNoOutput
		}
		return seq, nil
	}
}

func (e *Engine) env() []string {
	keys := make([]string, 0, len(e.provider.Env))
	for k := range e.provider.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+e.provider.Env[k])
	}
	return env
}

func (e *Engine) logStream(stream, text string) {
	if text == "" {
		return
	}
	text, truncated := truncate(text, MaxLogChars)
	e.logger.Info("provider: output",
		"provider", e.name,
		"stream", stream,
		"message", text,
		"truncated", truncated,
	)
}

// truncate cuts text after n characters without splitting a UTF-8
// sequence.
func truncate(text string, n int) (string, bool) {
	if len(text) <= n {
		return text, false
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i], true
		}
		count++
	}
	return text, false
}
