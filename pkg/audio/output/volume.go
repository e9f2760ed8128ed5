// ABOUTME: Software volume shared by the output backends
// ABOUTME: Lock-free volume and mute state plus sample scaling with clipping
package output

import (
	"sync/atomic"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

// volumeControl is safe to change from a UI goroutine while Write runs
type volumeControl struct {
	volume atomic.Int32
	muted  atomic.Bool
}

// init sets full volume, unmuted
func (v *volumeControl) init() {
	v.volume.Store(100)
	v.muted.Store(false)
}

func (v *volumeControl) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	v.volume.Store(int32(volume))
}

func (v *volumeControl) SetMuted(muted bool) { v.muted.Store(muted) }
func (v *volumeControl) Volume() int         { return int(v.volume.Load()) }
func (v *volumeControl) Muted() bool         { return v.muted.Load() }

// apply scales samples into dst, reusing its capacity
func (v *volumeControl) apply(dst, samples []int32) []int32 {
	return applyVolume(dst, samples, v.Volume(), v.Muted())
}

// applyVolume applies volume and mute to samples with clipping protection
func applyVolume(dst, samples []int32, volume int, muted bool) []int32 {
	if cap(dst) < len(samples) {
		dst = make([]int32, len(samples))
	}
	dst = dst[:len(samples)]

	multiplier := getVolumeMultiplier(volume, muted)
	for i, sample := range samples {
		scaled := int64(float64(sample) * multiplier)

		// Clamp to 24-bit range to prevent overflow
		if scaled > audio.Max24Bit {
			scaled = audio.Max24Bit
		} else if scaled < audio.Min24Bit {
			scaled = audio.Min24Bit
		}

		dst[i] = int32(scaled)
	}
	return dst
}

// getVolumeMultiplier calculates volume multiplier
func getVolumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}
