// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 frames to S16LE stereo chunks with sample-exact seeking
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

const (
	// go-mp3 always outputs 16-bit stereo, so one sample frame is 4 bytes
	mp3BytesPerSample = 4
	// MPEG-1 Layer III frame length in samples
	mp3SamplesPerFrame = 1152
)

// MP3Stream decodes MP3 audio
type MP3Stream struct {
	decoder  *mp3.Decoder
	seekable bool
	info     StreamInfo
	atEnd    bool
}

// NewMP3 creates a new MP3 stream
func NewMP3(r io.Reader, size int64) (Stream, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	sampleRate := decoder.SampleRate()
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid MP3 sample rate %d: %w", sampleRate, ErrNoAudioStream)
	}

	// Length is only known when the source is seekable
	var samples int64
	if l := decoder.Length(); l > 0 {
		samples = l / mp3BytesPerSample
	}
	_, seekable := r.(io.Seeker)

	return &MP3Stream{
		decoder:  decoder,
		seekable: seekable,
		info: StreamInfo{
			Codec:       CodecMP3,
			BitRate:     averageBitRate(size, samples, sampleRate),
			SampleRate:  sampleRate,
			Channels:    2,
			Duration:    samples,
			TimeBaseNum: 1,
			TimeBaseDen: int64(sampleRate),
		},
	}, nil
}

func (s *MP3Stream) Info() StreamInfo { return s.info }
func (s *MP3Stream) ChunkSize() int   { return mp3SamplesPerFrame * mp3BytesPerSample }

// ReadChunk decodes up to one MPEG frame worth of samples
func (s *MP3Stream) ReadChunk(buf []byte) (int, int64, error) {
	if s.atEnd {
		return 0, s.info.Duration, io.EOF
	}
	// Offset 0 from the current position only reports the decoded byte count
	pos, _ := s.decoder.Seek(0, io.SeekCurrent)
	pts := pos / mp3BytesPerSample

	n, err := io.ReadFull(s.decoder, buf[:s.ChunkSize()])
	n -= n % mp3BytesPerSample
	if n > 0 {
		// A short read still yields a chunk; the error resurfaces on the next call
		return n, pts, nil
	}
	if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	if errors.Is(err, io.EOF) && s.info.Duration > 0 && pts < s.info.Duration {
		err = fmt.Errorf("stream ended at sample %d of %d: %w", pts, s.info.Duration, io.ErrUnexpectedEOF)
	}
	return 0, pts, err
}

// Seek moves to the given sample
func (s *MP3Stream) Seek(pts int64) error {
	if !s.seekable {
		return ErrNotSeekable
	}
	if pts < 0 {
		pts = 0
	}
	// go-mp3 indexes its frame table by position, so never seek past the last frame
	if s.info.Duration > 0 && pts >= s.info.Duration {
		s.atEnd = true
		return nil
	}
	if _, err := s.decoder.Seek(pts*mp3BytesPerSample, io.SeekStart); err != nil {
		return fmt.Errorf("mp3 seek failed: %w", err)
	}
	s.atEnd = false
	return nil
}

// Close releases decoder resources
func (s *MP3Stream) Close() error {
	s.decoder = nil
	return nil
}
