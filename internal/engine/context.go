// ABOUTME: Opaque decoding context
// ABOUTME: Opens a source, owns the decode buffer and drives the codec stream
package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Sendspin/earwax-go/pkg/audio/decode"
)

// Context is an open decoding context. The byte slice returned by Next
// aliases the context's decode buffer and is overwritten by the next call
// to Next or Seek.
type Context struct {
	src    *source
	stream decode.Stream
	info   decode.StreamInfo
	buf    []byte
	opened time.Time
}

// Open creates a decoding context for a local path or an http(s) URL.
// On failure the returned error is an *OpenError and nothing stays allocated.
func Open(path string) (*Context, error) {
	src, err := openSource(path)
	if err != nil {
		return nil, &OpenError{Status: StatusIOError, Path: path, Err: err}
	}

	codec := src.detect()
	if codec == decode.CodecUnknown {
		src.close()
		return nil, &OpenError{Status: StatusIOError, Path: path, Err: errUnknownFormat}
	}

	stream, err := decode.New(codec, src.r, src.size)
	if err != nil {
		src.close()
		return nil, &OpenError{Status: statusFor(err), Path: path, Err: err}
	}

	ctx := &Context{
		src:    src,
		stream: stream,
		info:   stream.Info(),
		buf:    make([]byte, stream.ChunkSize()),
		opened: time.Now(),
	}
	acquire()

	Logger().Info("opened stream",
		zap.String("path", path),
		zap.String("codec", string(ctx.info.Codec)),
		zap.Int("sample_rate", ctx.info.SampleRate),
		zap.Int("channels", ctx.info.Channels),
		zap.Int("bitrate", ctx.info.BitRate),
		zap.Int64("duration", ctx.info.Duration))

	return ctx, nil
}

// Info returns the stream information read when the context was opened
func (c *Context) Info() decode.StreamInfo {
	return c.info
}

// Next decodes the next chunk. It returns io.EOF once the stream is exhausted.
func (c *Context) Next() ([]byte, int64, error) {
	n, pts, err := c.stream.ReadChunk(c.buf)
	if err == nil && n == 0 {
		err = io.EOF
	}
	if err != nil {
		if !errors.Is(err, io.EOF) {
			Logger().Error("decode failed", zap.String("path", c.src.name), zap.Int64("pts", pts), zap.Error(err))
		}
		return nil, pts, err
	}
	return c.buf[:n], pts, nil
}

// Seek moves the decode position to pts, clamped to the stream bounds
func (c *Context) Seek(pts int64) error {
	requested := pts
	if pts < c.info.StartTime {
		pts = c.info.StartTime
	}
	if c.info.Duration > 0 && pts > c.info.Duration {
		pts = c.info.Duration
	}

	if err := c.stream.Seek(pts); err != nil {
		Logger().Error("seek failed", zap.String("path", c.src.name), zap.Int64("pts", pts), zap.Error(err))
		return fmt.Errorf("seek to %d: %w", pts, err)
	}

	Logger().Debug("seeked", zap.String("path", c.src.name), zap.Int64("requested", requested), zap.Int64("pts", pts))
	return nil
}

// Release frees the decoder and closes the source. Calling it again is a no-op.
func (c *Context) Release() {
	if c.stream == nil {
		return
	}

	if err := c.stream.Close(); err != nil {
		Logger().Warn("decoder close failed", zap.String("path", c.src.name), zap.Error(err))
	}
	if err := c.src.close(); err != nil {
		Logger().Warn("source close failed", zap.String("path", c.src.name), zap.Error(err))
	}

	c.stream = nil
	c.buf = nil
	release(time.Since(c.opened))
}
