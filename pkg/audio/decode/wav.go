// ABOUTME: WAV audio decoder
// ABOUTME: Reads RIFF/WAVE PCM (8/16/24/32-bit) and float32 into S16LE stereo chunks
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

const (
	wavFormatPCM        = 0x0001
	wavFormatFloat      = 0x0003
	wavFormatExtensible = 0xFFFE

	// Frames decoded per chunk
	wavChunkFrames = 1024

	// Data chunk size written by streaming encoders that do not know the length
	wavUnknownSize = 0xFFFFFFFF
)

// WAVStream decodes RIFF/WAVE audio
type WAVStream struct {
	r      io.Reader
	seeker io.Seeker

	format        uint16
	channels      int
	sampleRate    int
	bitsPerSample int
	blockAlign    int

	dataOffset int64
	dataFrames int64 // -1 when unknown
	pos        int64

	scratch []byte
	info    StreamInfo
}

// NewWAV parses the RIFF header of r and positions it at the first sample
func NewWAV(r io.Reader, size int64) (Stream, error) {
	s := &WAVStream{r: r, dataFrames: -1}
	if seeker, ok := r.(io.Seeker); ok {
		s.seeker = seeker
	}

	if err := s.parseHeader(); err != nil {
		return nil, err
	}

	duration := s.dataFrames
	if duration < 0 {
		duration = 0
	}
	s.scratch = make([]byte, wavChunkFrames*s.blockAlign)
	s.info = StreamInfo{
		Codec:       CodecWAV,
		BitRate:     s.sampleRate * s.blockAlign * 8,
		SampleRate:  s.sampleRate,
		Channels:    s.channels,
		Duration:    duration,
		TimeBaseNum: 1,
		TimeBaseDen: int64(s.sampleRate),
	}
	return s, nil
}

// parseHeader walks the RIFF chunks until the data chunk
func (s *WAVStream) parseHeader() error {
	var riff [12]byte
	if _, err := io.ReadFull(s.r, riff[:]); err != nil {
		return fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return fmt.Errorf("not a RIFF/WAVE file: %w", ErrNoAudioStream)
	}
	offset := int64(len(riff))

	haveFormat := false
	for {
		var header [8]byte
		if _, err := io.ReadFull(s.r, header[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("missing data chunk: %w", ErrNoAudioStream)
			}
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		offset += int64(len(header))

		id := string(header[0:4])
		size := binary.LittleEndian.Uint32(header[4:8])

		switch id {
		case "fmt ":
			if err := s.parseFormat(size); err != nil {
				return err
			}
			haveFormat = true
			offset += int64(size) + int64(size&1)

		case "data":
			if !haveFormat {
				return fmt.Errorf("data chunk before fmt chunk: %w", ErrNoAudioStream)
			}
			s.dataOffset = offset
			if size != wavUnknownSize {
				s.dataFrames = int64(size) / int64(s.blockAlign)
			}
			return nil

		default:
			// Chunks are padded to an even size
			skip := int64(size) + int64(size&1)
			if _, err := io.CopyN(io.Discard, s.r, skip); err != nil {
				return fmt.Errorf("failed to skip %q chunk: %w", id, err)
			}
			offset += skip
		}
	}
}

// parseFormat reads a fmt chunk body of the given size
func (s *WAVStream) parseFormat(size uint32) error {
	if size < 16 {
		return fmt.Errorf("fmt chunk too short (%d bytes): %w", size, ErrNoAudioStream)
	}
	body := make([]byte, int(size)+int(size&1))
	if _, err := io.ReadFull(s.r, body); err != nil {
		return fmt.Errorf("failed to read fmt chunk: %w", err)
	}

	s.format = binary.LittleEndian.Uint16(body[0:2])
	s.channels = int(binary.LittleEndian.Uint16(body[2:4]))
	s.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
	s.blockAlign = int(binary.LittleEndian.Uint16(body[12:14]))
	s.bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))

	// The real format tag of WAVE_FORMAT_EXTENSIBLE leads the sub-format GUID
	if s.format == wavFormatExtensible && size >= 40 {
		s.format = binary.LittleEndian.Uint16(body[24:26])
	}

	if s.channels == 0 || s.sampleRate == 0 {
		return fmt.Errorf("fmt chunk has %d channels at %d Hz: %w", s.channels, s.sampleRate, ErrNoAudioStream)
	}

	switch {
	case s.format == wavFormatPCM && (s.bitsPerSample == 8 || s.bitsPerSample == 16 ||
		s.bitsPerSample == 24 || s.bitsPerSample == 32):
	case s.format == wavFormatFloat && s.bitsPerSample == 32:
	default:
		return fmt.Errorf("WAV format 0x%04X with %d bits: %w", s.format, s.bitsPerSample, ErrUnsupportedEncoding)
	}

	if want := s.channels * s.bitsPerSample / 8; s.blockAlign != want {
		return fmt.Errorf("block align %d does not match %d channels of %d bits: %w",
			s.blockAlign, s.channels, s.bitsPerSample, ErrUnsupportedEncoding)
	}
	return nil
}

func (s *WAVStream) Info() StreamInfo { return s.info }
func (s *WAVStream) ChunkSize() int   { return wavChunkFrames * 4 }

// ReadChunk decodes up to wavChunkFrames frames
func (s *WAVStream) ReadChunk(buf []byte) (int, int64, error) {
	frames := int64(wavChunkFrames)
	if s.dataFrames >= 0 && s.dataFrames-s.pos < frames {
		frames = s.dataFrames - s.pos
	}
	if limit := int64(len(buf) / 4); frames > limit {
		frames = limit
	}
	if frames <= 0 {
		return 0, s.pos, io.EOF
	}

	n, err := io.ReadFull(s.r, s.scratch[:int(frames)*s.blockAlign])
	got := n / s.blockAlign
	if got == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		// The header promised more frames than the file holds
		if errors.Is(err, io.EOF) && s.dataFrames >= 0 && s.pos < s.dataFrames {
			err = fmt.Errorf("data chunk truncated at frame %d of %d: %w", s.pos, s.dataFrames, io.ErrUnexpectedEOF)
		}
		return 0, s.pos, err
	}

	written := 0
	for i := 0; i < got; i++ {
		frame := s.scratch[i*s.blockAlign : (i+1)*s.blockAlign]
		left := s.sample(frame, 0)
		right := left
		if s.channels > 1 {
			right = s.sample(frame, 1)
		}
		written += audio.PutStereoS16(buf[written:], left, right)
	}

	pts := s.pos
	s.pos += int64(got)
	return written, pts, nil
}

// sample decodes one channel of one frame to 16-bit
func (s *WAVStream) sample(frame []byte, ch int) int16 {
	width := s.bitsPerSample / 8
	b := frame[ch*width : (ch+1)*width]

	if s.format == wavFormatFloat {
		f := math.Float32frombits(binary.LittleEndian.Uint32(b))
		if f > 1 {
			f = 1
		} else if f < -1 {
			f = -1
		}
		return int16(f * math.MaxInt16)
	}

	switch s.bitsPerSample {
	case 8:
		// 8-bit WAV is unsigned
		return audio.ScaleToInt16(int32(b[0])-128, 8)
	case 16:
		return int16(binary.LittleEndian.Uint16(b))
	case 24:
		return audio.ScaleToInt16(audio.SampleFrom24Bit([3]byte{b[0], b[1], b[2]}), 24)
	default:
		return audio.ScaleToInt16(int32(binary.LittleEndian.Uint32(b)), 32)
	}
}

// Seek moves to the given frame
func (s *WAVStream) Seek(pts int64) error {
	if s.seeker == nil {
		return ErrNotSeekable
	}
	if pts < 0 {
		pts = 0
	}
	if s.dataFrames >= 0 && pts > s.dataFrames {
		pts = s.dataFrames
	}
	if _, err := s.seeker.Seek(s.dataOffset+pts*int64(s.blockAlign), io.SeekStart); err != nil {
		return fmt.Errorf("wav seek failed: %w", err)
	}
	s.pos = pts
	return nil
}

// Close releases decoder resources
func (s *WAVStream) Close() error {
	s.scratch = nil
	return nil
}
