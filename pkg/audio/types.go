// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, decoded buffers and sample conversions
package audio

import "encoding/binary"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// Buffer represents decoded PCM audio
type Buffer struct {
	PTS     int64   // Presentation timestamp in stream time_base units
	Samples []int32 // PCM samples (int32 to support both 16-bit and 24-bit)
	Format  Format
}

// Frames returns the number of sample frames in the buffer
func (b Buffer) Frames() int {
	if b.Format.Channels == 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	// Take lower 24 bits, pack little-endian
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF // Set upper 8 bits to 1 for negative values
	}
	return val
}

// ScaleToInt16 rescales a signed sample of the given bit depth to 16-bit
func ScaleToInt16(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(sample)
	case bitDepth > 16:
		return int16(sample >> (bitDepth - 16))
	default:
		return int16(sample << (16 - bitDepth))
	}
}

// PutStereoS16 writes one interleaved stereo frame as signed 16-bit little-endian
// and returns the number of bytes written (always 4)
func PutStereoS16(dst []byte, left, right int16) int {
	binary.LittleEndian.PutUint16(dst[0:], uint16(left))
	binary.LittleEndian.PutUint16(dst[2:], uint16(right))
	return 4
}

// SamplesFromS16LE converts signed 16-bit little-endian PCM bytes to int32
// samples in 24-bit range. dst is reused when it has enough capacity.
func SamplesFromS16LE(dst []int32, data []byte) []int32 {
	n := len(data) / 2
	if cap(dst) < n {
		dst = make([]int32, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dst[i] = SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return dst
}
