// Package pcm provides types and utilities for working with PCM (Pulse Code
// Modulation) audio data.
//
// The package defines 16-bit mono formats at the sample rates used by the
// lip-sync adapter and converts normalized float samples to and from WAV
// files.
//
// Key types:
//   - Format: audio format (sample rate, channels, bit depth)
//   - WAV: a decoded WAV file split into per-channel float rows
//
// Example usage:
//
//	// Write 16kHz mono PCM16 audio
//	f, _ := os.Create("speech.wav")
//	defer f.Close()
//	err := pcm.WriteWAV(f, pcm.L16Mono16K, samples)
//
//	// Read it back
//	w, err := pcm.ReadWAV(f)
//	mono := w.Channels[0]
package pcm
