// ABOUTME: Stream interface definition and codec dispatch
// ABOUTME: Common interface for all seekable audio decoders
package decode

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnsupportedEncoding is returned when the container holds audio in an
	// encoding no decoder handles
	ErrUnsupportedEncoding = errors.New("unsupported encoding")

	// ErrNoAudioStream is returned when the container has no usable audio stream
	ErrNoAudioStream = errors.New("no audio stream")

	// ErrNotSeekable is returned by Seek when the source cannot be repositioned
	ErrNotSeekable = errors.New("source is not seekable")
)

// StreamInfo describes a decoded audio stream. Times are in time base units.
type StreamInfo struct {
	Codec       Codec
	BitRate     int // bits per second, 0 when unknown
	SampleRate  int
	Channels    int // channels in the source, output is always stereo
	StartTime   int64
	Duration    int64 // 0 when unknown
	TimeBaseNum int64
	TimeBaseDen int64
}

// Stream decodes audio to interleaved S16LE stereo PCM
type Stream interface {
	// Info returns stream information gathered when the stream was opened
	Info() StreamInfo

	// ChunkSize returns the largest number of bytes a single ReadChunk produces
	ChunkSize() int

	// ReadChunk decodes the next chunk into buf, which must hold at least
	// ChunkSize bytes. It returns the number of bytes written and the pts of
	// the first sample. At end of stream it returns io.EOF.
	ReadChunk(buf []byte) (n int, pts int64, err error)

	// Seek repositions the stream so that the next chunk starts at pts
	Seek(pts int64) error

	// Close releases decoder resources. The underlying reader is owned by the caller.
	Close() error
}

// New creates a stream for the given codec reading from r.
// size is the encoded size in bytes, or <= 0 when unknown.
// Seeking is only available when r implements io.Seeker.
func New(codec Codec, r io.Reader, size int64) (Stream, error) {
	switch codec {
	case CodecMP3:
		return NewMP3(r, size)
	case CodecFLAC:
		return NewFLAC(r, size)
	case CodecWAV:
		return NewWAV(r, size)
	default:
		return nil, fmt.Errorf("unsupported codec: %q", codec)
	}
}

// averageBitRate estimates bits per second from the encoded size and duration
func averageBitRate(size, samples int64, sampleRate int) int {
	if size <= 0 || samples <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(size * 8 * int64(sampleRate) / samples)
}
