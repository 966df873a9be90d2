// Package frames converts video frames between the representations used by
// host pipelines and the 8-bit RGB form lip-sync engines work on.
//
// # Representations
//
//   - [Tensor]: the pipeline's native form, float32 values in [0, 1],
//     channel-last, shaped [height, width, channels] or
//     [frames, height, width, channels]
//   - [ByteTensor]: the same layout with uint8 values
//   - [Frame] / [Sequence]: canonical 8-bit RGB frames, all of one size
//
// # Conversion
//
// [ToUint8] accepts a closed set of input shapes: tensors and byte tensors of
// rank 3 (one frame) or rank 4 (a batch), nested Go slices of the same ranks,
// frames and sequences, and []any collections whose elements are any of the
// above (nested batches are flattened in order). Float data is scaled by 255,
// clamped to [0, 255] and truncated.
//
// A rank-4 block whose second axis has 1 or 3 entries while its last axis
// has neither is treated as channel-first and transposed before anything
// else is inferred. Blocks where both axes have 1 or 3 entries are read as
// channel-last; a 3 on both axes is reported with a warning.
//
// [FromUint8] is the inverse: frames are stacked in order and divided by 255.
// [Native] stacks any recognized value into the float form without
// quantizing float inputs.
//
// # Interchange
//
// PNG files ([EncodePNG], [WritePNGDir]) and msgpack frame packs
// ([MarshalPack]) carry sequences to and from external engines.
package frames
