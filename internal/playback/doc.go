// ABOUTME: Playback package connecting decode sessions to audio outputs
// ABOUTME: Owns the single goroutine allowed to drive a session
// Package playback plays a queue of audio files through an output backend.
//
// The Player decodes with pkg/earwax, widens chunks to int32 samples,
// resamples when the device runs at a different rate and writes to an
// output.Output. Seek requests from other goroutines are queued and applied
// between chunks.
package playback
