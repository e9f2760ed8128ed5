// ABOUTME: Engine status codes and open errors
// ABOUTME: Classifies failures to open a decoding context
package engine

import (
	"errors"
	"fmt"

	"github.com/Sendspin/earwax-go/pkg/audio/decode"
)

// Status is the numeric result of opening a context
type Status int

const (
	StatusOK                  Status = 0
	StatusIOError             Status = 100
	StatusAudioStreamNotFound Status = 101
	StatusDecoderNotFound     Status = 102
	StatusUnableToOpenDecoder Status = 103
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusIOError:
		return "i/o error"
	case StatusAudioStreamNotFound:
		return "audio stream not found"
	case StatusDecoderNotFound:
		return "decoder not found"
	case StatusUnableToOpenDecoder:
		return "unable to open decoder"
	default:
		return fmt.Sprintf("status %d", int(s))
	}
}

// OpenError is returned by Open. No context is allocated when it occurs.
type OpenError struct {
	Status Status
	Path   string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Status, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

var (
	errUnknownFormat  = errors.New("unrecognized container format")
	errNotInitialized = errors.New("engine not initialized")
)

// statusFor classifies a decoder construction error
func statusFor(err error) Status {
	switch {
	case errors.Is(err, decode.ErrNoAudioStream):
		return StatusAudioStreamNotFound
	case errors.Is(err, decode.ErrUnsupportedEncoding):
		return StatusDecoderNotFound
	default:
		return StatusUnableToOpenDecoder
	}
}
