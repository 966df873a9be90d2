package lipsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/noliv3/videoaudio/pkg/frames"
)

// OutcomeKind classifies an engine call.
type OutcomeKind int

const (
	// OutcomeProduced means the engine returned frames.
	OutcomeProduced OutcomeKind = iota

	// OutcomeEmpty means the engine returned nothing, usually because no
	// face was found.
	OutcomeEmpty

	// OutcomeUnavailable means no engine could be resolved.
	OutcomeUnavailable

	// OutcomeFailed means the engine returned an error, panicked, ran past
	// its deadline or returned something that is not a frame value.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeProduced:
		return "produced"
	case OutcomeEmpty:
		return "empty"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the result of one engine call.
type Outcome struct {
	Kind OutcomeKind

	// Frames holds the engine output for OutcomeProduced and the input
	// frames for OutcomeUnavailable and OutcomeFailed.
	Frames frames.Sequence

	// Err is the cause of OutcomeUnavailable and OutcomeFailed.
	Err error
}

// Invoker calls the engine behind a Handle and never lets engine failures
// escape.
type Invoker struct {
	Handle    *Handle
	ModelPath string

	// Timeout bounds each call. Zero means no limit beyond ctx.
	Timeout time.Duration

	Logger  *slog.Logger
	Metrics *Metrics
}

type syncResult struct {
	out any
	err error
}

// Invoke runs the engine on seq with the audio file at audioPath. seq is
// passed to the engine as is.
func (inv *Invoker) Invoke(ctx context.Context, seq frames.Sequence, audioPath string, mode Mode, batch int) Outcome {
	logger := inv.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := inv.Handle.Engine()
	if err != nil {
		logger.Warn("lipsync: engine unavailable, returning input frames", "error", err)
		return Outcome{Kind: OutcomeUnavailable, Frames: seq, Err: err}
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}
	req := &Request{
		Frames:    seq,
		AudioPath: audioPath,
		BatchSize: ClampBatch(batch),
		Mode:      ParseMode(string(mode)),
		ModelPath: inv.ModelPath,
	}

	start := time.Now()
	out, err := call(ctx, engine, req)
	elapsed := time.Since(start)
	inv.Metrics.observeLatency(elapsed)

	if err != nil {
		logger.Warn("lipsync: engine failed, returning input frames", "error", err, "elapsed", elapsed)
		return Outcome{Kind: OutcomeFailed, Frames: seq, Err: err}
	}
	if frames.IsEmpty(out) {
		logger.Debug("lipsync: engine returned no frames", "elapsed", elapsed)
		return Outcome{Kind: OutcomeEmpty}
	}
	result, err := frames.ToUint8(out)
	if err != nil {
		logger.Warn("lipsync: unusable engine output, returning input frames", "error", err, "type", fmt.Sprintf("%T", out))
		return Outcome{Kind: OutcomeFailed, Frames: seq, Err: err}
	}
	if len(result) == 0 {
		return Outcome{Kind: OutcomeEmpty}
	}
	logger.Debug("lipsync: engine produced frames", "in", len(seq), "out", len(result), "elapsed", elapsed)
	return Outcome{Kind: OutcomeProduced, Frames: result}
}

// call runs e.Sync on its own goroutine so that a deadline is honored even
// by engines that ignore ctx. Such an engine keeps running in the
// background until it returns on its own.
func call(ctx context.Context, e Engine, req *Request) (any, error) {
	done := make(chan syncResult, 1)
	go func() {
		var res syncResult
		defer func() {
			if r := recover(); r != nil {
				res = syncResult{err: fmt.Errorf("lipsync: engine panic: %v", r)}
			}
			done <- res
		}()
		res.out, res.err = e.Sync(ctx, req)
	}()

	select {
	case res := <-done:
		if res.err == nil && ctx.Err() != nil {
			return nil, fmt.Errorf("lipsync: engine overran deadline: %w", ctx.Err())
		}
		return res.out, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("lipsync: engine overran deadline: %w", ctx.Err())
	}
}
