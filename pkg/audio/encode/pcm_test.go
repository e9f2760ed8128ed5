// ABOUTME: Unit tests for PCM encoder and raw PCM writer
// ABOUTME: Checks decoded chunks survive encoding and that buffers are reused between calls
package encode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

func TestNewPCM_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		format audio.Format
		want   string
	}{
		{"wrong codec", audio.Format{Codec: "flac", BitDepth: 16}, "invalid codec"},
		{"32-bit", audio.Format{Codec: "pcm", BitDepth: 32}, "unsupported bit depth"},
		{"8-bit", audio.Format{Codec: "pcm", BitDepth: 8}, "unsupported bit depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPCM(tt.format)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("NewPCM() error = %v, want %q", err, tt.want)
			}
		})
	}
}

// s16Chunk builds decoded chunk bytes from interleaved 16-bit values
func s16Chunk(values ...int16) []byte {
	data := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
	}
	return data
}

func TestPCMEncoder_16BitReproducesChunk(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: "pcm", BitDepth: 16})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	chunk := s16Chunk(0, -1, 32767, -32768, 1234, -4321)
	out, err := encoder.Encode(audio.SamplesFromS16LE(nil, chunk))
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if !bytes.Equal(out, chunk) {
		t.Errorf("Encode() = % x, want % x", out, chunk)
	}
}

func TestPCMEncoder_24BitWidens(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: "pcm", BitDepth: 24})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	out, err := encoder.Encode(audio.SamplesFromS16LE(nil, s16Chunk(1, -1, 0x1234)))
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	want := []byte{0x00, 0x01, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x34, 0x12}
	if !bytes.Equal(out, want) {
		t.Errorf("Encode() = % x, want % x", out, want)
	}
}

func TestPCMEncoder_ReusesBuffer(t *testing.T) {
	encoder, err := NewPCM(audio.Format{Codec: "pcm", BitDepth: 16})
	if err != nil {
		t.Fatalf("NewPCM() failed: %v", err)
	}

	first, _ := encoder.Encode([]int32{0x100, 0x200})
	second, _ := encoder.Encode([]int32{0x300})
	if &first[0] != &second[0] {
		t.Error("expected encode buffer to be reused")
	}
	if len(second) != 2 {
		t.Errorf("expected 2 bytes, got %d", len(second))
	}

	// A larger call grows the buffer instead of truncating
	third, _ := encoder.Encode(make([]int32, 10))
	if len(third) != 20 {
		t.Errorf("expected 20 bytes, got %d", len(third))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPCMWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewPCMWriter(&buf, audio.Format{Codec: "pcm", BitDepth: 16})
	if err != nil {
		t.Fatalf("NewPCMWriter() failed: %v", err)
	}

	chunk := s16Chunk(10, -10, 20, -20)
	for i := 0; i < 3; i++ {
		if err := w.Write(audio.SamplesFromS16LE(nil, chunk)); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	if w.Written() != int64(3*len(chunk)) {
		t.Errorf("Written() = %d, want %d", w.Written(), 3*len(chunk))
	}
	if !bytes.Equal(buf.Bytes(), bytes.Repeat(chunk, 3)) {
		t.Errorf("unexpected output % x", buf.Bytes())
	}

	fw, _ := NewPCMWriter(failingWriter{}, audio.Format{Codec: "pcm", BitDepth: 16})
	if err := fw.Write([]int32{1}); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected write error, got %v", err)
	}
}
