// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all audio encoders
package encode

// Encoder encodes PCM int32 samples to various formats
type Encoder interface {
	// Encode converts PCM samples to encoded audio data. The returned slice
	// is reused by the next call.
	Encode(samples []int32) ([]byte, error)

	// Close releases encoder resources
	Close() error
}

// SampleWriter streams samples to a destination in some file format
type SampleWriter interface {
	Write(samples []int32) error

	// Written returns the number of audio data bytes written
	Written() int64

	Close() error
}

var (
	_ SampleWriter = (*WAVWriter)(nil)
	_ SampleWriter = (*PCMWriter)(nil)
)
