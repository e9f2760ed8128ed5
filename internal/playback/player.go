// ABOUTME: Playback loop driving decode sessions into an audio output
// ABOUTME: Plays a queue of files, applying seek requests between chunks
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Sendspin/earwax-go/pkg/audio"
	"github.com/Sendspin/earwax-go/pkg/audio/output"
	"github.com/Sendspin/earwax-go/pkg/audio/resample"
	"github.com/Sendspin/earwax-go/pkg/earwax"
)

// Decoded chunks are always interleaved stereo
const channels = 2

// Config holds player configuration
type Config struct {
	// Output receives the decoded samples (required)
	Output output.Output

	// Logger for playback events (default: no-op)
	Logger *zap.Logger

	// BitDepth the output device is opened with (default: 16)
	BitDepth int

	// DeviceRate is the output sample rate; 0 opens the device at the rate of
	// the first track and resamples later tracks that differ
	DeviceRate int

	// StartSeconds is where the first track starts playing
	StartSeconds int64

	// Volume is the initial volume (0-100, default: 100)
	Volume int

	// ProgressInterval limits how often OnProgress fires (default: 250ms)
	ProgressInterval time.Duration

	// OnTrack is called when a track starts
	OnTrack func(Track)

	// OnProgress is called as playback advances and after every seek
	OnProgress func(Progress)
}

// Track describes the track being played
type Track struct {
	Index int
	Total int
	Path  string
	Info  earwax.Info
}

// Progress reports the position of the current track
type Progress struct {
	Position earwax.Timestamp
	Duration earwax.Timestamp
}

// seekRequest moves playback to an absolute or relative position in seconds
type seekRequest struct {
	seconds  int64
	relative bool
}

// Player plays files one after another. Only the goroutine running Play
// touches the decode session; other goroutines talk to it through Seek.
type Player struct {
	config Config
	logger *zap.Logger
	seeks  chan seekRequest

	deviceRate int
	samples    []int32
	resampled  []int32
}

// New creates a new player with the given configuration
func New(config Config) (*Player, error) {
	if config.Output == nil {
		return nil, errors.New("playback: output is required")
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.BitDepth == 0 {
		config.BitDepth = 16
	}
	if config.Volume == 0 {
		config.Volume = 100
	}
	if config.ProgressInterval == 0 {
		config.ProgressInterval = 250 * time.Millisecond
	}

	config.Output.SetVolume(config.Volume)

	return &Player{
		config:     config,
		logger:     config.Logger.Named("playback"),
		seeks:      make(chan seekRequest, 8),
		deviceRate: config.DeviceRate,
	}, nil
}

// SeekTo requests a jump to an absolute position in the current track
func (p *Player) SeekTo(seconds int64) {
	p.requestSeek(seekRequest{seconds: seconds})
}

// SeekBy requests a jump relative to the current position
func (p *Player) SeekBy(seconds int64) {
	p.requestSeek(seekRequest{seconds: seconds, relative: true})
}

func (p *Player) requestSeek(req seekRequest) {
	select {
	case p.seeks <- req:
	default:
		p.logger.Warn("seek queue full, dropping request", zap.Int64("seconds", req.seconds))
	}
}

// SetVolume changes the output volume (0-100)
func (p *Player) SetVolume(volume int) {
	p.config.Output.SetVolume(volume)
}

// SetMuted changes the output mute state
func (p *Player) SetMuted(muted bool) {
	p.config.Output.SetMuted(muted)
}

// Play plays every path in order. Files that fail to open or decode are
// skipped and their errors returned together once the queue is done.
// Cancelling ctx stops playback between chunks.
func (p *Player) Play(ctx context.Context, paths []string) error {
	var errs error
	for i, path := range paths {
		err := p.playTrack(ctx, i, len(paths), path)
		if ctx.Err() != nil {
			return multierr.Append(errs, ctx.Err())
		}
		if err != nil {
			p.logger.Error("track failed", zap.String("path", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

func (p *Player) playTrack(ctx context.Context, index, total int, path string) error {
	s, err := earwax.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.Info()
	log := p.logger.With(zap.String("session", s.ID().String()), zap.String("path", path))

	if p.deviceRate == 0 {
		p.deviceRate = info.SampleRate
	}
	if err := p.config.Output.Open(p.deviceRate, channels, p.config.BitDepth); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	var rs *resample.Resampler
	if info.SampleRate != p.deviceRate {
		rs = resample.New(info.SampleRate, p.deviceRate, channels)
		log.Info("resampling", zap.Int("from", info.SampleRate), zap.Int("to", p.deviceRate))
	}

	if p.config.OnTrack != nil {
		p.config.OnTrack(Track{Index: index, Total: total, Path: path, Info: info})
	}
	log.Info("playing",
		zap.String("codec", info.Codec),
		zap.Int("sample_rate", info.SampleRate),
		zap.Duration("duration", info.Duration.Duration()))

	position := info.StartTime
	if index == 0 && p.config.StartSeconds > 0 {
		if err := s.Seek(p.config.StartSeconds); err != nil {
			log.Warn("start position not reachable", zap.Int64("seconds", p.config.StartSeconds), zap.Error(err))
		}
	}

	var lastProgress time.Time
	forceProgress := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-p.seeks:
			target := req.seconds
			if req.relative {
				target += position.Seconds()
			}
			if target < 0 {
				target = 0
			}
			if err := s.Seek(target); err != nil {
				log.Warn("seek failed", zap.Int64("seconds", target), zap.Error(err))
			} else {
				log.Debug("seeked", zap.Int64("seconds", target))
				if rs != nil {
					rs.Reset()
				}
			}
			forceProgress = true
		default:
		}

		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			log.Info("track finished", zap.Stringer("position", position))
			return nil
		}
		if err != nil {
			return err
		}
		position = chunk.Time

		if err := p.write(chunk.Data, rs); err != nil {
			return err
		}

		if p.config.OnProgress != nil && (forceProgress || time.Since(lastProgress) >= p.config.ProgressInterval) {
			p.config.OnProgress(Progress{Position: position, Duration: info.Duration})
			lastProgress = time.Now()
			forceProgress = false
		}
	}
}

// write widens a chunk to int32 samples, resamples it if needed and hands it
// to the output
func (p *Player) write(data []byte, rs *resample.Resampler) error {
	p.samples = audio.SamplesFromS16LE(p.samples, data)
	out := p.samples

	if rs != nil {
		need := rs.OutputSamplesNeeded(len(p.samples))
		if cap(p.resampled) < need {
			p.resampled = make([]int32, need)
		}
		n := rs.Resample(p.samples, p.resampled[:need])
		out = p.resampled[:n]
	}

	if len(out) == 0 {
		return nil
	}
	if err := p.config.Output.Write(out); err != nil {
		return fmt.Errorf("output write failed: %w", err)
	}
	return nil
}
