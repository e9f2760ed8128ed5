// ABOUTME: Audio decoder package for multiple container/codec support
// ABOUTME: Provides the Stream interface and MP3, FLAC and WAV implementations
// Package decode turns encoded audio files into a sequence of PCM chunks.
//
// Supports: MP3 (go-mp3), FLAC (mewkiz/flac), WAV (PCM 8/16/24/32-bit, float32)
//
// Every Stream produces interleaved signed 16-bit little-endian stereo PCM at
// the source sample rate, one chunk per codec frame, each tagged with the pts
// of its first sample in units of the stream time base (1/sample rate).
//
// Example:
//
//	codec := decode.Detect(header, path)
//	stream, err := decode.New(codec, file, size)
//	buf := make([]byte, stream.ChunkSize())
//	n, pts, err := stream.ReadChunk(buf)
package decode
