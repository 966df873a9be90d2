package lipsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/noliv3/videoaudio/pkg/artifact"
	"github.com/noliv3/videoaudio/pkg/audio/resampler"
	"github.com/noliv3/videoaudio/pkg/audio/waveform"
	"github.com/noliv3/videoaudio/pkg/frames"
)

// Input is one node execution.
type Input struct {
	// Images is any image value accepted by frames.ToUint8.
	Images any

	// Audio is any audio value accepted by waveform.Canonicalize.
	Audio any

	// Mode is "sequential" or "repetitive". Other values mean sequential.
	Mode string

	// BatchSize is clamped to [1, 64]. Zero means 8.
	BatchSize int

	// OnNoFace is "passthrough" or "error". Other values mean passthrough.
	OnNoFace string
}

// Result is the output of a node execution.
type Result struct {
	// Frames are the output frames in native float form.
	Frames frames.Tensor

	// Outcome describes what the engine did. Outcome.Frames is not
	// needed by callers and is cleared.
	Outcome Outcome
}

// Option configures a Node.
type Option func(*nodeConfig)

type nodeConfig struct {
	logger    *slog.Logger
	resolver  Resolver
	handle    *Handle
	modelPath string
	tempDir   string
	artifacts *artifact.Manager
	metrics   *Metrics
	timeout   time.Duration
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *nodeConfig) { c.logger = l }
}

// WithResolver sets how the engine is located.
func WithResolver(r Resolver) Option {
	return func(c *nodeConfig) { c.resolver = r }
}

// WithEngine uses e as the engine.
func WithEngine(e Engine) Option {
	return func(c *nodeConfig) { c.resolver = Static(e) }
}

// WithHandle shares an already constructed handle, so several nodes
// resolve their engine once between them. It takes precedence over
// WithResolver.
func WithHandle(h *Handle) Option {
	return func(c *nodeConfig) { c.handle = h }
}

// WithModelPath sets the model path passed to the engine.
func WithModelPath(path string) Option {
	return func(c *nodeConfig) { c.modelPath = path }
}

// WithTempDir sets the directory for audio artifacts. The default is
// os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *nodeConfig) { c.tempDir = dir }
}

// WithArtifacts sets the artifact manager. It takes precedence over
// WithTempDir.
func WithArtifacts(m *artifact.Manager) Option {
	return func(c *nodeConfig) { c.artifacts = m }
}

// WithMetrics records outcomes and engine latency in m.
func WithMetrics(m *Metrics) Option {
	return func(c *nodeConfig) { c.metrics = m }
}

// WithTimeout bounds each engine call. An overrun is handled like an
// engine failure.
func WithTimeout(d time.Duration) Option {
	return func(c *nodeConfig) { c.timeout = d }
}

// Node runs the full adapter: canonicalize inputs, write the audio
// artifact, call the engine and apply the empty-result policy.
type Node struct {
	logger    *slog.Logger
	artifacts *artifact.Manager
	invoker   *Invoker
	metrics   *Metrics
}

// NewNode creates a Node. Without WithResolver, WithEngine or WithHandle
// the engine is unavailable and every execution passes frames through.
func NewNode(opts ...Option) (*Node, error) {
	c := nodeConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}

	artifacts := c.artifacts
	if artifacts == nil {
		m, err := artifact.NewManager(c.tempDir, artifact.WithLogger(c.logger))
		if err != nil {
			return nil, fmt.Errorf("lipsync: artifact dir: %w", err)
		}
		artifacts = m
	}
	handle := c.handle
	if handle == nil {
		handle = NewHandle(c.resolver)
	}

	return &Node{
		logger:    c.logger,
		artifacts: artifacts,
		metrics:   c.metrics,
		invoker: &Invoker{
			Handle:    handle,
			ModelPath: c.modelPath,
			Timeout:   c.timeout,
			Logger:    c.logger,
			Metrics:   c.metrics,
		},
	}, nil
}

// Handle returns the node's engine handle.
func (n *Node) Handle() *Handle { return n.invoker.Handle }

// Execute runs one lip-sync pass. Malformed audio or images and
// ErrNoFramesProduced under PolicyError are the only errors caused by
// input or engine behavior. The audio artifact is removed before Execute
// returns.
func (n *Node) Execute(ctx context.Context, in Input) (*Result, error) {
	clip, err := waveform.Canonicalize(in.Audio)
	if err != nil {
		return nil, err
	}
	seq, err := frames.ToUint8(in.Images)
	if err != nil {
		return nil, err
	}
	mode := ParseMode(in.Mode)
	batch := ClampBatch(in.BatchSize)
	policy := ParsePolicy(in.OnNoFace)

	samples := resampler.ToTarget(clip.Samples, clip.SampleRate)
	n.logger.Debug("lipsync: executing",
		"frames", len(seq),
		"sample_rate", clip.SampleRate,
		"samples", len(samples),
		"mode", mode,
		"batch", batch,
		"on_no_face", policy,
	)

	var outcome Outcome
	err = n.artifacts.With(samples, func(path string) error {
		outcome = n.invoker.Invoke(ctx, seq, path, mode, batch)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lipsync: audio artifact: %w", err)
	}
	n.metrics.observeOutcome(outcome.Kind)

	out, err := Finalize(outcome, in.Images, policy)
	if err != nil {
		return nil, err
	}
	outcome.Frames = nil
	return &Result{Frames: out, Outcome: outcome}, nil
}
