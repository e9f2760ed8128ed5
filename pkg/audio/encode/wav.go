// ABOUTME: RIFF/WAVE file writer
// ABOUTME: Streams int32 samples into a go-audio/wav encoder
package encode

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

// WAVE_FORMAT_PCM
const wavFormatPCM = 1

// ErrWriterClosed is returned by Write after Close
var ErrWriterClosed = errors.New("encode: wav writer closed")

// WAVWriter writes PCM samples as a WAV file. The RIFF and data sizes are
// patched by Close, so the destination must be seekable.
type WAVWriter struct {
	enc     *wav.Encoder
	format  audio.Format
	buf     goaudio.IntBuffer
	written int64
	closed  bool
}

// NewWAV writes the header to w and returns a writer for format.
// Supported bit depths are 16, 24 and 32.
func NewWAV(w io.WriteSeeker, format audio.Format) (*WAVWriter, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for WAV writer: %s", format.Codec)
	}
	switch format.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24, 32)", format.BitDepth)
	}
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("invalid wav format: %d Hz, %d channels", format.SampleRate, format.Channels)
	}

	ww := &WAVWriter{
		enc:    wav.NewEncoder(w, format.SampleRate, format.BitDepth, format.Channels, wavFormatPCM),
		format: format,
		buf: goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
			SourceBitDepth: format.BitDepth,
		},
	}

	// An empty write emits the header and opens the data chunk
	if err := ww.enc.Write(&ww.buf); err != nil {
		return nil, fmt.Errorf("failed to write wav header: %w", err)
	}
	return ww, nil
}

// Write appends interleaved samples in 24-bit range
func (ww *WAVWriter) Write(samples []int32) error {
	if ww.closed {
		return ErrWriterClosed
	}

	data := ww.buf.Data[:0]
	for _, s := range samples {
		switch ww.format.BitDepth {
		case 16:
			data = append(data, int(audio.SampleToInt16(s)))
		case 24:
			data = append(data, int(s))
		default:
			data = append(data, int(s)<<8)
		}
	}
	ww.buf.Data = data

	if err := ww.enc.Write(&ww.buf); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	ww.written += int64(len(samples) * ww.format.BitDepth / 8)
	return nil
}

// Written returns the number of data bytes written so far
func (ww *WAVWriter) Written() int64 {
	return ww.written
}

// Close patches the header sizes. It does not close the underlying writer.
func (ww *WAVWriter) Close() error {
	if ww.closed {
		return nil
	}
	ww.closed = true
	if err := ww.enc.Close(); err != nil {
		return fmt.Errorf("failed to finish wav file: %w", err)
	}
	return nil
}
