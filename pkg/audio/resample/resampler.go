// ABOUTME: Streaming linear resampler for converting audio sample rates
// ABOUTME: Carries the last frame across calls so chunk boundaries interpolate smoothly
package resample

import "math"

// Resampler performs linear interpolation to convert between sample rates.
// Successive calls to Resample treat their inputs as one continuous stream.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64

	// position indexes the virtual sequence [lastFrame, input...]
	position  float64
	lastFrame []int32
	primed    bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		lastFrame:  make([]int32, channels),
	}
}

func (r *Resampler) InputRate() int  { return r.inputRate }
func (r *Resampler) OutputRate() int { return r.outputRate }

// Resample converts interleaved input at inputRate into output at outputRate
// and returns the number of samples written. output should hold at least
// OutputSamplesNeeded(len(input)) samples or input is dropped.
func (r *Resampler) Resample(input []int32, output []int32) int {
	ch := r.channels
	frames := len(input) / ch
	if frames == 0 {
		return 0
	}

	// The first frame ever seen has nothing before it
	if !r.primed {
		r.position = 1
		r.primed = true
	}

	frame := func(i, c int) int32 {
		if i == 0 {
			return r.lastFrame[c]
		}
		return input[(i-1)*ch+c]
	}

	outFrames := len(output) / ch
	outIdx := 0
	for outIdx < outFrames {
		idx := int(r.position)
		if idx >= frames {
			break
		}

		frac := r.position - float64(idx)
		for c := 0; c < ch; c++ {
			a, b := frame(idx, c), frame(idx+1, c)
			output[outIdx*ch+c] = int32(float64(a)*(1.0-frac) + float64(b)*frac)
		}

		outIdx++
		r.position += r.ratio
	}

	// The last input frame becomes frame 0 of the next call
	copy(r.lastFrame, input[(frames-1)*ch:frames*ch])
	r.position -= float64(frames)
	if r.position < 0 {
		r.position = 0
	}

	return outIdx * ch
}

// Reset forgets the carried frame, for use after a seek
func (r *Resampler) Reset() {
	r.position = 0
	r.primed = false
	for i := range r.lastFrame {
		r.lastFrame[i] = 0
	}
}

// OutputSamplesNeeded returns an upper bound on the samples produced from inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(math.Ceil(float64(inputFrames)/r.ratio)) + 1
	return outputFrames * r.channels
}

// InputSamplesNeeded calculates how many input samples are needed to produce output samples
func (r *Resampler) InputSamplesNeeded(outputSamples int) int {
	outputFrames := outputSamples / r.channels
	inputFrames := int(float64(outputFrames) * r.ratio)
	return inputFrames * r.channels
}
