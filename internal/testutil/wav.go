// ABOUTME: Synthetic WAV fixtures for tests
// ABOUTME: Builds RIFF/WAVE files whose sample values encode their frame index
package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// WAV describes a synthetic RIFF/WAVE file.
//
// By default frame f carries the 16-bit value f%32768 on the left channel and
// its negation on the right, so decoded chunks reveal which frame they start at.
type WAV struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Float         bool
	Frames        int

	// ExtraChunk inserts an odd-sized LIST chunk before the data chunk
	ExtraChunk bool

	// UnknownSize writes 0xFFFFFFFF as the data chunk size, as streaming encoders do
	UnknownSize bool
}

// FrameValue returns the 16-bit value stored for a frame and channel
func FrameValue(frame, ch int) int16 {
	v := int16(frame % 32768)
	if ch == 1 {
		return -v
	}
	return v
}

// Bytes renders the file
func (w WAV) Bytes() []byte {
	if w.SampleRate == 0 {
		w.SampleRate = 1000
	}
	if w.Channels == 0 {
		w.Channels = 2
	}
	if w.BitsPerSample == 0 {
		w.BitsPerSample = 16
	}

	width := w.BitsPerSample / 8
	blockAlign := w.Channels * width

	var data bytes.Buffer
	for f := 0; f < w.Frames; f++ {
		for ch := 0; ch < w.Channels; ch++ {
			v := FrameValue(f, ch%2)
			switch {
			case w.Float:
				_ = binary.Write(&data, binary.LittleEndian, math.Float32bits(float32(v)/math.MaxInt16))
			case w.BitsPerSample == 8:
				data.WriteByte(byte(int(v>>8) + 128))
			case w.BitsPerSample == 16:
				_ = binary.Write(&data, binary.LittleEndian, v)
			case w.BitsPerSample == 24:
				s := int32(v) << 8
				data.Write([]byte{byte(s), byte(s >> 8), byte(s >> 16)})
			default:
				_ = binary.Write(&data, binary.LittleEndian, int32(v)<<16)
			}
		}
	}

	format := uint16(1)
	if w.Float {
		format = 3
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	_ = binary.Write(&out, binary.LittleEndian, uint32(0)) // patched below
	out.WriteString("WAVE")

	out.WriteString("fmt ")
	_ = binary.Write(&out, binary.LittleEndian, uint32(16))
	_ = binary.Write(&out, binary.LittleEndian, format)
	_ = binary.Write(&out, binary.LittleEndian, uint16(w.Channels))
	_ = binary.Write(&out, binary.LittleEndian, uint32(w.SampleRate))
	_ = binary.Write(&out, binary.LittleEndian, uint32(w.SampleRate*blockAlign))
	_ = binary.Write(&out, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&out, binary.LittleEndian, uint16(w.BitsPerSample))

	if w.ExtraChunk {
		out.WriteString("LIST")
		_ = binary.Write(&out, binary.LittleEndian, uint32(3))
		out.Write([]byte{'a', 'b', 'c', 0}) // 3 bytes + pad
	}

	out.WriteString("data")
	size := uint32(data.Len())
	if w.UnknownSize {
		size = 0xFFFFFFFF
	}
	_ = binary.Write(&out, binary.LittleEndian, size)
	out.Write(data.Bytes())

	b := out.Bytes()
	binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))
	return b
}

// WriteWAV writes the file into a per-test temporary directory and returns its path
func WriteWAV(t testing.TB, name string, w WAV) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, w.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
