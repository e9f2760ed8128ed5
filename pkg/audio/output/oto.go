// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams 16-bit PCM to a persistent oto player with software volume
package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

// Oto output implementation using oto library
type Oto struct {
	volumeControl
	logger *zap.Logger

	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	sampleRate int
	channels   int
	ready      bool

	scaled []int32
	bytes  []byte
}

// NewOto creates a new Oto output
func NewOto(logger *zap.Logger) *Oto {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Oto{logger: logger}
	o.init()
	return o
}

// Open initializes the output device. oto always plays 16-bit samples.
func (o *Oto) Open(sampleRate, channels, bitDepth int) error {
	if bitDepth != 16 {
		o.logger.Warn("oto only supports 16-bit output", zap.Int("requested_bit_depth", bitDepth))
	}

	// If already initialized with same format, reuse the existing context
	if o.otoCtx != nil && o.sampleRate == sampleRate && o.channels == channels {
		o.logger.Debug("output already initialized with same format, reusing context")
		return o.startPlayer()
	}

	// oto allows one context per process, so a format change cannot be honored
	if o.otoCtx != nil {
		return fmt.Errorf("oto cannot switch from %dHz/%dch to %dHz/%dch", o.sampleRate, o.channels, sampleRate, channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = sampleRate
	o.channels = channels

	if err := o.startPlayer(); err != nil {
		return err
	}

	o.logger.Info("audio output initialized", zap.Int("sample_rate", sampleRate), zap.Int("channels", channels))
	return nil
}

// startPlayer creates the persistent player reading from a fresh pipe
func (o *Oto) startPlayer() error {
	if o.ready {
		return nil
	}
	if err := o.otoCtx.Resume(); err != nil {
		return fmt.Errorf("failed to resume oto context: %w", err)
	}
	o.pipeReader, o.pipeWriter = io.Pipe()
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.player.Play()
	o.ready = true
	return nil
}

// Write outputs audio samples (blocks until the player has taken them)
func (o *Oto) Write(samples []int32) error {
	if !o.ready {
		return errors.New("output not initialized")
	}

	o.scaled = o.apply(o.scaled, samples)

	if need := len(o.scaled) * 2; cap(o.bytes) < need {
		o.bytes = make([]byte, need)
	}
	out := o.bytes[:len(o.scaled)*2]
	for i, s := range o.scaled {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(audio.SampleToInt16(s)))
	}

	if _, err := o.pipeWriter.Write(out); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}
	return nil
}

// Close stops playback. The oto context stays suspended for reuse by Open.
func (o *Oto) Close() error {
	if o.pipeWriter != nil {
		o.pipeWriter.Close()
		o.pipeWriter = nil
	}
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			o.logger.Warn("player close failed", zap.Error(err))
		}
		o.player = nil
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
		o.pipeReader = nil
	}
	if o.otoCtx != nil {
		if err := o.otoCtx.Suspend(); err != nil {
			o.logger.Warn("oto suspend failed", zap.Error(err))
		}
	}
	o.ready = false
	return nil
}
