// ABOUTME: Errors returned by sessions
// ABOUTME: Path encoding, engine open failures and mid-stream decode failures
package earwax

import (
	"errors"
	"fmt"
)

// Engine status codes carried by EngineError
const (
	CodeIOError             = 100
	CodeAudioStreamNotFound = 101
	CodeDecoderNotFound     = 102
	CodeUnableToOpenDecoder = 103
)

// ErrClosed is returned by operations on a closed session
var ErrClosed = errors.New("earwax: session closed")

// PathEncodingError is returned by Open when the path cannot be handed to the
// engine. No engine call has been made when it occurs.
type PathEncodingError struct {
	Path   string
	Offset int // index of the first NUL byte
}

func (e *PathEncodingError) Error() string {
	return fmt.Sprintf("%q: NUL byte at offset %d", e.Path, e.Offset)
}

// EngineError is returned by Open when the engine fails to open the path.
// No decoding context is left allocated.
type EngineError struct {
	Code int
	Path string
	Err  error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: engine error %d: %v", e.Path, e.Code, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// DecodeError is returned by Next or a seek when decoding fails mid-stream.
// It is distinct from io.EOF, which marks a clean end of stream.
type DecodeError struct {
	PTS Timestamp // position of the failure
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at %s: %v", e.PTS, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
