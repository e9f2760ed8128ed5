// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types and sample conversion functions
// Package audio provides fundamental audio types and utilities shared by the
// decoders, the playback loop and the output backends.
//
// This package defines:
//   - Format: Describes audio stream format (codec, sample rate, channels, bit depth)
//   - Buffer: Decoded PCM audio tagged with its presentation timestamp
//
// It also provides utilities for converting between sample formats:
//   - 16-bit ↔ 24-bit conversions
//   - arbitrary bit depth → 16-bit scaling
//   - interleaved S16LE bytes ↔ int32 samples
//
// Example:
//
//	// Decoded chunks are S16LE stereo; widen them for the output backends
//	samples := audio.SamplesFromS16LE(nil, chunk.Data)
package audio
