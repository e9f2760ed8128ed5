// ABOUTME: Audio encoder package for writing decoded PCM back out
// ABOUTME: Provides the PCM sample packer and a RIFF/WAVE file writer
// Package encode packs int32 samples into little-endian PCM and writes
// them as WAV files.
//
// Supports: 16-bit and 24-bit PCM
//
// All encoders accept int32 samples in 24-bit range.
//
// Example:
//
//	w, err := encode.NewWAV(f, audio.Format{Codec: "pcm", SampleRate: 48000, Channels: 2, BitDepth: 24})
//	err = w.Write(samples)
//	err = w.Close()
package encode
