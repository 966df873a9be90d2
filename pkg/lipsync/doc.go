// Package lipsync runs lip-sync engines against in-memory frames and audio.
//
// A [Node] takes an image value and an audio value in any of the shapes
// understood by package frames and package waveform, resamples the audio to
// 16 kHz, hands it to the engine through a transient WAV file and returns
// the engine's frames in the pipeline's native float form.
//
// Engines are optional. When no engine can be resolved, or the engine
// fails, panics or runs past its deadline, the node logs a warning and
// returns the original frames. Only an empty result can be escalated into
// an error, and only with [PolicyError].
//
// # Engines
//
// Engines are registered by name with [RegisterEngine] and selected with a
// [Resolver]. A [Handle] resolves its engine at most once for its whole
// lifetime, so an engine that fails to load is not retried.
//
//	node, err := lipsync.NewNode(
//	    lipsync.WithResolver(lipsync.FromRegistry(lipsync.EngineConfig{Name: "exec"})),
//	    lipsync.WithTimeout(5*time.Minute),
//	)
//	res, err := node.Execute(ctx, lipsync.Input{Images: img, Audio: clip})
package lipsync
