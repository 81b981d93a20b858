package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-interview/core/audio"
)

type playbackDevice struct {
	timeline *audio.Timeline
	device   *malgo.Device

	// scratch is only used from the device callback.
	scratch []float32

	mu sync.Mutex
}

func (p *playbackDevice) init(audioContext *malgo.AllocatedContext) error {
	format := malgo.FormatF32
	bytesPerFrame := malgo.SampleSizeInBytes(format)
	sampleRate := uint32(p.timeline.SampleRate())

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = sampleRate
	config.Playback.Format = format
	config.Playback.Channels = 1
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = sampleRate / 50 // 20ms
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(output, _ []byte, frameCount uint32) {
			frames := int(frameCount)
			if len(output) < frames*bytesPerFrame {
				frames = len(output) / bytesPerFrame
			}
			if cap(p.scratch) < frames {
				p.scratch = make([]float32, frames)
			}
			samples := p.scratch[:frames]
			p.timeline.Render(samples)
			audio.Float32ToBytes(output, samples)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	p.device = device
	return nil
}

func (p *playbackDevice) start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		return fmt.Errorf("playback device closed")
	}

	if err := p.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}
	return nil
}

func (p *playbackDevice) uninit() {
	p.mu.Lock()
	device := p.device
	p.device = nil
	p.mu.Unlock()

	if device == nil {
		return
	}
	if device.IsStarted() {
		if err := device.Stop(); err != nil {
			logger.Warn("failed to stop playback device", "error", err)
		}
	}
	device.Uninit()
}
