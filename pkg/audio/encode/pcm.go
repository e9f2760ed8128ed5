// ABOUTME: PCM audio encoder
// ABOUTME: Encodes int32 samples to 16-bit or 24-bit little-endian PCM bytes and raw PCM files
package encode

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

var _ Encoder = (*PCMEncoder)(nil)

// PCMEncoder encodes PCM audio
type PCMEncoder struct {
	bitDepth int
	buf      []byte
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (*PCMEncoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	return &PCMEncoder{
		bitDepth: format.BitDepth,
	}, nil
}

// BytesPerSample returns the encoded size of one sample
func (e *PCMEncoder) BytesPerSample() int {
	return e.bitDepth / 8
}

// Encode converts int32 samples to PCM bytes
func (e *PCMEncoder) Encode(samples []int32) ([]byte, error) {
	n := len(samples) * e.BytesPerSample()
	if cap(e.buf) < n {
		e.buf = make([]byte, n)
	}
	output := e.buf[:n]

	if e.bitDepth == 24 {
		for i, sample := range samples {
			b := audio.SampleTo24Bit(sample)
			copy(output[i*3:], b[:])
		}
		return output, nil
	}

	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(audio.SampleToInt16(sample)))
	}
	return output, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	e.buf = nil
	return nil
}

// PCMWriter writes headerless PCM to w
type PCMWriter struct {
	w       io.Writer
	enc     *PCMEncoder
	written int64
}

// NewPCMWriter returns a writer encoding samples for format
func NewPCMWriter(w io.Writer, format audio.Format) (*PCMWriter, error) {
	enc, err := NewPCM(format)
	if err != nil {
		return nil, err
	}
	return &PCMWriter{w: w, enc: enc}, nil
}

// Write encodes samples and writes them out
func (pw *PCMWriter) Write(samples []int32) error {
	data, err := pw.enc.Encode(samples)
	if err != nil {
		return err
	}
	n, err := pw.w.Write(data)
	pw.written += int64(n)
	if err != nil {
		return fmt.Errorf("failed to write pcm data: %w", err)
	}
	return nil
}

// Written returns the number of bytes written so far
func (pw *PCMWriter) Written() int64 {
	return pw.written
}

// Close releases the encoder. It does not close the underlying writer.
func (pw *PCMWriter) Close() error {
	return pw.enc.Close()
}
