// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package resample

import (
	"testing"
)

func TestNew(t *testing.T) {
	r := New(44100, 48000, 2)

	if r == nil {
		t.Fatal("expected resampler to be created")
	}

	if r.InputRate() != 44100 {
		t.Errorf("expected inputRate 44100, got %d", r.InputRate())
	}

	if r.OutputRate() != 48000 {
		t.Errorf("expected outputRate 48000, got %d", r.OutputRate())
	}

	if r.channels != 2 {
		t.Errorf("expected channels 2, got %d", r.channels)
	}
}

func ramp(n, step int) []int32 {
	input := make([]int32, n)
	for i := range input {
		input[i] = int32(i * step)
	}
	return input
}

func TestResampleUpsampling(t *testing.T) {
	// 44100 -> 48000 (upsampling by factor of ~1.088)
	r := New(44100, 48000, 2)
	input := ramp(200, 100)

	expectedSize := int(float64(len(input)) * float64(48000) / float64(44100))
	output := make([]int32, r.OutputSamplesNeeded(len(input)))

	n := r.Resample(input, output)

	// Allow some tolerance due to rounding
	if n < expectedSize-10 || n > expectedSize+10 {
		t.Errorf("expected ~%d samples, got %d", expectedSize, n)
	}
	if n > len(output) {
		t.Fatalf("wrote %d samples into %d", n, len(output))
	}
}

func TestResampleDownsampling(t *testing.T) {
	// 48000 -> 44100 (downsampling by factor of ~0.91875)
	r := New(48000, 44100, 2)
	input := ramp(200, 100)

	expectedSize := int(float64(len(input)) * float64(44100) / float64(48000))
	output := make([]int32, r.OutputSamplesNeeded(len(input)))

	n := r.Resample(input, output)

	if n < expectedSize-10 || n > expectedSize+10 {
		t.Errorf("expected ~%d samples, got %d", expectedSize, n)
	}
}

func TestResampleSameRate(t *testing.T) {
	r := New(48000, 48000, 2)
	input := ramp(200, 100)

	output := make([]int32, r.OutputSamplesNeeded(len(input)))
	n := r.Resample(input, output)

	// The final frame is held back for the next call
	if n != len(input)-2 {
		t.Errorf("expected %d samples, got %d", len(input)-2, n)
	}

	for i := 0; i < n; i++ {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %d, got %d", i, input[i], output[i])
		}
	}
}

func TestResampleChunkBoundaries(t *testing.T) {
	input := ramp(400, 7)

	whole := New(1000, 1500, 1)
	wholeOut := make([]int32, whole.OutputSamplesNeeded(len(input)))
	wholeN := whole.Resample(input, wholeOut)

	split := New(1000, 1500, 1)
	var splitOut []int32
	for start := 0; start < len(input); start += 100 {
		out := make([]int32, split.OutputSamplesNeeded(100))
		n := split.Resample(input[start:start+100], out)
		splitOut = append(splitOut, out[:n]...)
	}

	if abs(len(splitOut)-wholeN) > 1 {
		t.Fatalf("split produced %d samples, whole produced %d", len(splitOut), wholeN)
	}

	// A ramp stays a ramp across boundaries
	for i := 1; i < len(splitOut); i++ {
		if step := int(splitOut[i] - splitOut[i-1]); step < 3 || step > 6 {
			t.Fatalf("discontinuity at %d: %d -> %d", i, splitOut[i-1], splitOut[i])
		}
	}
}

func TestResampleStereo(t *testing.T) {
	r := New(44100, 48000, 2)

	// Create input with different L/R patterns
	input := make([]int32, 20) // 10 stereo samples
	for i := 0; i < 10; i++ {
		input[i*2] = 1000    // Left channel
		input[i*2+1] = -1000 // Right channel
	}

	output := make([]int32, r.OutputSamplesNeeded(len(input)))
	n := r.Resample(input, output)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}

	for i := 0; i < n/2; i++ {
		if output[i*2] != 1000 || output[i*2+1] != -1000 {
			t.Fatalf("frame %d: expected (1000, -1000), got (%d, %d)", i, output[i*2], output[i*2+1])
		}
	}
}

func TestResampleLargeRatioUp(t *testing.T) {
	// Test large upsampling ratio (44.1k -> 192k)
	r := New(44100, 192000, 2)
	input := ramp(200, 10)

	output := make([]int32, r.OutputSamplesNeeded(len(input)))
	n := r.Resample(input, output)

	if n < len(input)*3 {
		t.Errorf("expected at least 3x upsampling, got %d from %d", n, len(input))
	}
}

func TestResampleLargeRatioDown(t *testing.T) {
	// Test large downsampling ratio (192k -> 48k)
	r := New(192000, 48000, 2)
	input := ramp(200, 10)

	output := make([]int32, r.OutputSamplesNeeded(len(input)))
	n := r.Resample(input, output)

	if n == 0 {
		t.Fatal("resampler produced no output")
	}
	if n > len(input)/2 {
		t.Errorf("expected at most 1/2 samples after downsampling, got %d from %d", n, len(input))
	}
}

func TestResampleEmptyInput(t *testing.T) {
	r := New(44100, 48000, 2)

	n := r.Resample([]int32{}, make([]int32, 100))

	if n != 0 {
		t.Errorf("expected 0 samples from empty input, got %d", n)
	}
}

func TestResampleReset(t *testing.T) {
	r := New(1000, 1000, 1)

	out := make([]int32, 10)
	r.Resample([]int32{500, 500, 500}, out)
	r.Reset()

	n := r.Resample([]int32{7, 8, 9}, out)
	if n != 2 || out[0] != 7 {
		t.Errorf("expected fresh start at 7, got %v", out[:n])
	}
}

// Helper function
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
