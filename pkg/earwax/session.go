// ABOUTME: Decode session owning one engine context
// ABOUTME: Opens a path, reports stream info, pulls chunks and seeks
package earwax

import (
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sendspin/earwax-go/internal/engine"
)

// Engine entry points, replaced in tests to observe the lifecycle pairing
var (
	engineInitialize = engine.Initialize
	engineShutdown   = engine.Shutdown
	engineOpen       = engine.Open
)

// Info is a snapshot of stream information taken when the session opened
type Info struct {
	BitRate    int // bits per second, 0 when unknown
	SampleRate int
	StartTime  Timestamp
	Duration   Timestamp // zero ticks when unknown
	TimeBase   Rational

	Codec    string // "mp3", "flac" or "wav"
	Channels int    // channels in the source; chunks are always stereo
}

// Chunk is one block of decoded S16LE stereo PCM.
// Data is only valid until the next Next, SeekPTS, Seek or Close call on the
// session that produced it.
type Chunk struct {
	Data []byte
	Time Timestamp
}

// Copy returns a chunk whose data no longer aliases the session buffer
func (c Chunk) Copy() Chunk {
	return Chunk{Data: append([]byte(nil), c.Data...), Time: c.Time}
}

// Session decodes one audio file or stream. It is not safe for concurrent use.
type Session struct {
	id       uuid.UUID
	path     string
	ctx      *engine.Context
	info     Info
	timeBase Rational
	logger   *zap.Logger
}

// Open opens path, a local file or an http(s) URL, and reads its stream info.
// It returns a *PathEncodingError or an *EngineError on failure.
func Open(path string) (*Session, error) {
	if i := strings.IndexByte(path, 0); i >= 0 {
		return nil, &PathEncodingError{Path: path, Offset: i}
	}

	engineInitialize()
	ctx, err := engineOpen(path)
	if err != nil {
		engineShutdown()

		code, cause := CodeIOError, err
		var openErr *engine.OpenError
		if errors.As(err, &openErr) {
			code, cause = int(openErr.Status), openErr.Err
		}
		return nil, &EngineError{Code: code, Path: path, Err: cause}
	}

	s := &Session{
		id:   uuid.New(),
		path: path,
		ctx:  ctx,
	}
	s.logger = engine.Logger().With(zap.String("session", s.id.String()))

	raw := ctx.Info()
	tb, err := NewRational(raw.TimeBaseNum, raw.TimeBaseDen)
	if err != nil {
		s.logger.Warn("stream has no time base, using one tick per second", zap.String("path", path))
		tb = MustRational(1, 1)
	}
	s.timeBase = tb
	s.info = Info{
		BitRate:    raw.BitRate,
		SampleRate: raw.SampleRate,
		StartTime:  TimestampFromPTS(tb, raw.StartTime),
		Duration:   TimestampFromPTS(tb, raw.Duration),
		TimeBase:   tb,
		Codec:      string(raw.Codec),
		Channels:   raw.Channels,
	}

	s.logger.Debug("session opened",
		zap.String("path", path),
		zap.String("codec", s.info.Codec),
		zap.Stringer("time_base", tb),
		zap.Stringer("duration", s.info.Duration))
	return s, nil
}

// ID identifies the session in logs
func (s *Session) ID() uuid.UUID { return s.id }

// Path returns the path the session was opened with
func (s *Session) Path() string { return s.path }

// Info returns the stream information read at open time
func (s *Session) Info() Info { return s.info }

// Next decodes the next chunk. It returns io.EOF at the end of the stream and
// a *DecodeError when decoding fails; no chunk is produced in either case.
func (s *Session) Next() (Chunk, error) {
	if s.ctx == nil {
		return Chunk{}, ErrClosed
	}

	data, pts, err := s.ctx.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Chunk{}, io.EOF
		}
		return Chunk{}, &DecodeError{PTS: TimestampFromPTS(s.timeBase, pts), Err: err}
	}
	return Chunk{Data: data, Time: TimestampFromPTS(s.timeBase, pts)}, nil
}

// SeekPTS repositions the session so the next chunk starts at or after pts.
// Positions outside the stream are clamped to its bounds.
func (s *Session) SeekPTS(pts int64) error {
	if s.ctx == nil {
		return ErrClosed
	}
	if err := s.ctx.Seek(pts); err != nil {
		return &DecodeError{PTS: TimestampFromPTS(s.timeBase, pts), Err: err}
	}
	return nil
}

// Seek repositions the session to a whole number of seconds
func (s *Session) Seek(seconds int64) error {
	return s.SeekPTS(TimestampFromSeconds(s.timeBase, seconds).PTS())
}

// SeekTimestamp repositions the session to a timestamp in any time base
func (s *Session) SeekTimestamp(ts Timestamp) error {
	return s.SeekPTS(ts.Rescale(s.timeBase).PTS())
}

// Close releases the decoding context. Later calls return ErrClosed.
func (s *Session) Close() error {
	ctx := s.ctx
	s.ctx = nil
	if ctx == nil {
		return ErrClosed
	}

	ctx.Release()
	engineShutdown()
	s.logger.Debug("session closed", zap.String("path", s.path))
	return nil
}
