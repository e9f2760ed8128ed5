// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides the Output interface with oto, malgo and discarding backends
// Package output provides audio playback interfaces.
//
// Backends:
//   - oto: pure Go on most platforms, 16-bit only
//   - malgo: miniaudio via cgo, 16/24/32-bit
//   - null: discards samples, for headless runs
//
// Samples are interleaved int32 values in 24-bit range, as produced by
// audio.SamplesFromS16LE.
//
// Example:
//
//	out, err := output.New("oto", logger)
//	err = out.Open(48000, 2, 16)
//	err = out.Write(samples)
package output
