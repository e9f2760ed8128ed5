// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends and a backend factory
package output

import (
	"fmt"

	"go.uber.org/zap"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels, bitDepth int) error

	// Write outputs interleaved samples in 24-bit range (blocks until queued)
	Write(samples []int32) error

	// Close releases output resources
	Close() error

	// SetVolume sets the software volume (0-100)
	SetVolume(volume int)

	// SetMuted sets the mute state
	SetMuted(muted bool)

	Volume() int
	Muted() bool
}

// Backends lists the names accepted by New
var Backends = []string{"oto", "malgo", "null"}

// New creates the named output backend
func New(backend string, logger *zap.Logger) (Output, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("output").With(zap.String("backend", backend))

	switch backend {
	case "oto":
		return NewOto(logger), nil
	case "malgo":
		return NewMalgo(logger), nil
	case "null":
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unknown output backend %q (want one of %v)", backend, Backends)
	}
}
