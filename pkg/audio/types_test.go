// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion and S16 byte helpers
package audio

import "testing"

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected int16
	}{
		{"zero", 0, 0},
		{"positive", 100 << 8, 100},
		{"negative", -100 << 8, -100},
		{"24bit positive", 1000000, 3906}, // 1000000 >> 8 = 3906
		{"24bit negative", -1000000, -3907},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleTo24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		expected [3]byte
	}{
		{"zero", 0, [3]byte{0, 0, 0}},
		{"positive", 0x123456, [3]byte{0x56, 0x34, 0x12}},
		{"negative", -256, [3]byte{0x00, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleTo24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSampleFrom24Bit(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x56, 0x34, 0x12}, 0x123456},
		{"negative", [3]byte{0x00, 0xFF, 0xFF}, -256},
		{"max positive", [3]byte{0xFF, 0xFF, 0x7F}, Max24Bit},
		{"max negative", [3]byte{0x00, 0x00, 0x80}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24Bit(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	// Test that 16-bit samples survive round-trip conversion
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	for _, original := range samples {
		sample32 := SampleFromInt16(original)
		result := SampleToInt16(sample32)
		if result != original {
			t.Errorf("round-trip failed: %d -> %d -> %d", original, sample32, result)
		}
	}
}

func TestRoundTrip24Bit(t *testing.T) {
	// Test that 24-bit samples survive round-trip conversion
	samples := []int32{0, 100000, -100000, Max24Bit, Min24Bit}

	for _, original := range samples {
		bytes := SampleTo24Bit(original)
		result := SampleFrom24Bit(bytes)
		// Mask to 24-bit for comparison
		expected := original & 0xFFFFFF
		if expected&0x800000 != 0 {
			expected |= ^0xFFFFFF
		}
		if result != expected {
			t.Errorf("round-trip failed: %d -> %v -> %d (expected %d)", original, bytes, result, expected)
		}
	}
}

func TestScaleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int32
		bitDepth int
		expected int16
	}{
		{"16bit passthrough", -1234, 16, -1234},
		{"8bit widen", 127, 8, 127 << 8},
		{"8bit negative", -128, 8, -32768},
		{"24bit narrow", 0x123456, 24, 0x1234},
		{"32bit narrow", -65536, 32, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScaleToInt16(tt.input, tt.bitDepth)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestPutStereoS16(t *testing.T) {
	buf := make([]byte, 4)
	n := PutStereoS16(buf, 0x0102, -2)
	if n != 4 {
		t.Fatalf("expected 4 bytes written, got %d", n)
	}
	expected := []byte{0x02, 0x01, 0xFE, 0xFF}
	for i := range expected {
		if buf[i] != expected[i] {
			t.Errorf("byte %d: expected 0x%02X, got 0x%02X", i, expected[i], buf[i])
		}
	}
}

func TestSamplesFromS16LE(t *testing.T) {
	data := []byte{0x00, 0x01, 0xFF, 0xFF, 0x01}
	samples := SamplesFromS16LE(nil, data)

	// Trailing odd byte is ignored
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0] != 256<<8 {
		t.Errorf("expected %d, got %d", 256<<8, samples[0])
	}
	if samples[1] != -1<<8 {
		t.Errorf("expected %d, got %d", -1<<8, samples[1])
	}

	// Capacity is reused
	reused := SamplesFromS16LE(samples[:0], data[:2])
	if &reused[0] != &samples[0] {
		t.Error("expected destination slice to be reused")
	}
}

func TestBufferFrames(t *testing.T) {
	b := Buffer{Samples: make([]int32, 10), Format: Format{Channels: 2}}
	if b.Frames() != 5 {
		t.Errorf("expected 5 frames, got %d", b.Frames())
	}
	if (Buffer{Samples: make([]int32, 10)}).Frames() != 0 {
		t.Error("expected 0 frames when channel count is unknown")
	}
}
