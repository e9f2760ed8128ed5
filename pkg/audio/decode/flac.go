// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC frames to S16LE stereo chunks using mewkiz/flac
package decode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

// Largest block size allowed by the FLAC format
const flacMaxBlockSize = 65535

// FLACStream decodes FLAC audio
type FLACStream struct {
	stream        *flac.Stream
	seekable      bool
	info          StreamInfo
	bitsPerSample int
	blockSizeMax  int

	next  int64 // sample number of the next frame
	skip  int64 // leading samples to drop after a seek
	atEnd bool
}

// NewFLAC creates a new FLAC stream
func NewFLAC(r io.Reader, size int64) (Stream, error) {
	var (
		stream   *flac.Stream
		err      error
		seekable bool
	)
	if rs, ok := r.(io.ReadSeeker); ok {
		stream, err = flac.NewSeek(rs)
		seekable = true
	} else {
		stream, err = flac.New(r)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	if info.NChannels == 0 || info.SampleRate == 0 {
		return nil, fmt.Errorf("FLAC stream info has %d channels at %d Hz: %w",
			info.NChannels, info.SampleRate, ErrNoAudioStream)
	}

	blockSizeMax := int(info.BlockSizeMax)
	if blockSizeMax == 0 {
		blockSizeMax = flacMaxBlockSize
	}

	// NSamples is 0 when the encoder did not know the length
	samples := int64(info.NSamples)

	return &FLACStream{
		stream:        stream,
		seekable:      seekable,
		bitsPerSample: int(info.BitsPerSample),
		blockSizeMax:  blockSizeMax,
		info: StreamInfo{
			Codec:       CodecFLAC,
			BitRate:     averageBitRate(size, samples, int(info.SampleRate)),
			SampleRate:  int(info.SampleRate),
			Channels:    int(info.NChannels),
			Duration:    samples,
			TimeBaseNum: 1,
			TimeBaseDen: int64(info.SampleRate),
		},
	}, nil
}

func (s *FLACStream) Info() StreamInfo { return s.info }
func (s *FLACStream) ChunkSize() int   { return s.blockSizeMax * 4 }

// ReadChunk decodes the next FLAC frame
func (s *FLACStream) ReadChunk(buf []byte) (int, int64, error) {
	if s.atEnd {
		return 0, s.info.Duration, io.EOF
	}

	for {
		frame, err := s.stream.ParseNext()
		if err != nil {
			return 0, s.next, err
		}

		start := s.next
		blockSize := int(frame.BlockSize)
		s.next += int64(blockSize)

		from := 0
		if s.skip > 0 {
			if s.skip >= int64(blockSize) {
				s.skip -= int64(blockSize)
				continue
			}
			from = int(s.skip)
			s.skip = 0
		}

		// Mono is duplicated, anything wider keeps the front pair
		left := frame.Subframes[0].Samples
		right := left
		if len(frame.Subframes) > 1 {
			right = frame.Subframes[1].Samples
		}

		n := 0
		for i := from; i < blockSize && n+4 <= len(buf); i++ {
			n += audio.PutStereoS16(buf[n:],
				audio.ScaleToInt16(left[i], s.bitsPerSample),
				audio.ScaleToInt16(right[i], s.bitsPerSample))
		}
		return n, start + int64(from), nil
	}
}

// Seek moves to the frame holding pts and trims the samples before it
func (s *FLACStream) Seek(pts int64) error {
	if !s.seekable {
		return ErrNotSeekable
	}
	if pts < 0 {
		pts = 0
	}
	if s.info.Duration > 0 && pts >= s.info.Duration {
		s.atEnd = true
		return nil
	}

	frameStart, err := s.stream.Seek(uint64(pts))
	if err != nil {
		return fmt.Errorf("flac seek failed: %w", err)
	}

	s.next = int64(frameStart)
	s.skip = pts - s.next
	if s.skip < 0 {
		s.skip = 0
	}
	s.atEnd = false
	return nil
}

// Close releases decoder resources
func (s *FLACStream) Close() error {
	s.stream = nil
	return nil
}
