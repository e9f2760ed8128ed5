// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts decoded audio to the rate an output device runs at
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates. A Resampler
// is stateful: it carries the last frame of each input so consecutive decoded
// chunks join without clicks. Call Reset after seeking.
//
// Example:
//
//	r := resample.New(44100, 48000, 2)
//	out := make([]int32, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
package resample
