// ABOUTME: Malgo-based audio output implementation with 24-bit support
// ABOUTME: Uses miniaudio via malgo with a ring buffer feeding the device callback
package output

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/Sendspin/earwax-go/pkg/audio"
)

// How long Write waits between attempts when the ring buffer is full
const malgoWritePoll = 5 * time.Millisecond

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	volumeControl
	logger *zap.Logger

	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	bitDepth   int
	ready      bool

	// Ring buffer for callback-based playback
	ringBuffer *RingBuffer
	mu         sync.Mutex

	scaled   []int32
	callback []int32 // only touched by the device thread
}

// NewMalgo creates a new Malgo output
func NewMalgo(logger *zap.Logger) *Malgo {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Malgo{logger: logger}
	m.init()
	return m
}

// Open initializes the output device with specified format
func (m *Malgo) Open(sampleRate, channels, bitDepth int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// If already initialized with same format, reuse
	if m.device != nil && m.sampleRate == sampleRate && m.channels == channels && m.bitDepth == bitDepth {
		m.logger.Debug("output already initialized with same format, reusing device")
		return nil
	}

	// If format changed, reinitialize
	if m.device != nil {
		m.logger.Info("format change, reinitializing device",
			zap.Int("old_sample_rate", m.sampleRate), zap.Int("sample_rate", sampleRate),
			zap.Int("old_channels", m.channels), zap.Int("channels", channels),
			zap.Int("old_bit_depth", m.bitDepth), zap.Int("bit_depth", bitDepth))
		m.closeDevice()
	}

	// Map bit depth to malgo format
	var format malgo.FormatType
	switch bitDepth {
	case 16:
		format = malgo.FormatS16
	case 24:
		format = malgo.FormatS24
	case 32:
		format = malgo.FormatS32
	default:
		return fmt.Errorf("unsupported bit depth: %d (supported: 16, 24, 32)", bitDepth)
	}

	// Create malgo context if needed
	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
			m.logger.Debug("miniaudio", zap.String("message", message))
		})
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	// Create ring buffer (500ms capacity)
	bufferSamples := (sampleRate * channels * 500) / 1000
	m.ringBuffer = NewRingBuffer(bufferSamples)

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	m.channels = channels
	m.bitDepth = bitDepth
	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pOutputSample, frameCount)
		},
	}

	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("failed to start device: %w", err)
	}

	m.device = device
	m.sampleRate = sampleRate
	m.ready = true

	m.logger.Info("audio output initialized",
		zap.Int("sample_rate", sampleRate),
		zap.Int("channels", channels),
		zap.Int("bit_depth", bitDepth),
		zap.String("format", formatName(format)))
	return nil
}

// Write queues audio samples for playback, waiting while the ring buffer is full
func (m *Malgo) Write(samples []int32) error {
	m.mu.Lock()
	ready, rb := m.ready, m.ringBuffer
	m.mu.Unlock()
	if !ready {
		return errors.New("output not initialized")
	}

	m.scaled = m.apply(m.scaled, samples)

	written := 0
	for written < len(m.scaled) {
		n := rb.Write(m.scaled[written:])
		written += n
		if n == 0 {
			// The device callback drains the buffer in real time
			time.Sleep(malgoWritePoll)
			if !m.isReady() {
				return errors.New("output closed during write")
			}
		}
	}
	return nil
}

func (m *Malgo) isReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	totalSamples := int(frameCount) * m.channels
	if cap(m.callback) < totalSamples {
		m.callback = make([]int32, totalSamples)
	}
	samples := m.callback[:totalSamples]

	m.ringBuffer.Read(samples)

	switch m.bitDepth {
	case 16:
		write16Bit(pOutput, samples)
	case 24:
		write24Bit(pOutput, samples)
	case 32:
		write32Bit(pOutput, samples)
	}
}

// write16Bit converts int32 samples to 16-bit output
func write16Bit(output []byte, samples []int32) {
	for i, sample := range samples {
		sample16 := audio.SampleToInt16(sample)
		output[i*2] = byte(sample16)
		output[i*2+1] = byte(sample16 >> 8)
	}
}

// write24Bit converts int32 samples to 24-bit output (3 bytes per sample)
func write24Bit(output []byte, samples []int32) {
	for i, sample := range samples {
		packed := audio.SampleTo24Bit(sample)
		copy(output[i*3:i*3+3], packed[:])
	}
}

// write32Bit converts int32 samples to 32-bit output
func write32Bit(output []byte, samples []int32) {
	for i, sample := range samples {
		// Shift 24-bit value to upper bits of 32-bit container
		sample32 := sample << 8
		output[i*4] = byte(sample32)
		output[i*4+1] = byte(sample32 >> 8)
		output[i*4+2] = byte(sample32 >> 16)
		output[i*4+3] = byte(sample32 >> 24)
	}
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			m.logger.Warn("malgo context uninit failed", zap.Error(err))
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}
	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device == nil {
		return
	}
	if err := m.device.Stop(); err != nil {
		m.logger.Warn("device stop failed", zap.Error(err))
	}
	m.device.Uninit()
	m.device = nil
	m.ready = false
}

// formatName returns human-readable format name
func formatName(format malgo.FormatType) string {
	switch format {
	case malgo.FormatS16:
		return "S16"
	case malgo.FormatS24:
		return "S24"
	case malgo.FormatS32:
		return "S32"
	default:
		return fmt.Sprintf("Unknown(%d)", format)
	}
}
