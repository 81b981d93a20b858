package miniaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-interview/core/audio"
)

type captureDevice struct {
	sampleRate int
	periodSize int
	device     *malgo.Device

	mu      sync.Mutex
	onFrame func(frame audio.Frame)
}

// captureDeviceConfig describes a mono float capture device delivering
// periodSize frames per callback.
func captureDeviceConfig(sampleRate, periodSize int) malgo.DeviceConfig {
	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(sampleRate)
	config.Capture.Format = malgo.FormatF32
	config.Capture.Channels = 1
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = uint32(periodSize)
	return config
}

func (c *captureDevice) init(audioContext *malgo.AllocatedContext) error {
	config := captureDeviceConfig(c.sampleRate, c.periodSize)
	bytesPerFrame := malgo.SampleSizeInBytes(config.Capture.Format)

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if n == 0 || len(input) < n {
				return
			}

			c.mu.Lock()
			onFrame := c.onFrame
			c.mu.Unlock()
			if onFrame == nil {
				return
			}

			onFrame(audio.Frame{
				Samples:    audio.Float32FromBytes(input[:n]),
				SampleRate: c.sampleRate,
				Channels:   1,
				CapturedAt: time.Now(),
			})
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.device = device
	return nil
}

func (c *captureDevice) Stream(_ context.Context, onFrame func(frame audio.Frame)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("capture device closed")
	} else if c.device.IsStarted() {
		return nil
	}

	c.onFrame = onFrame
	if err := c.device.Start(); err != nil {
		c.onFrame = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	return nil
}

func (c *captureDevice) Close() {
	c.mu.Lock()
	device := c.device
	c.device = nil
	c.onFrame = nil
	c.mu.Unlock()

	if device == nil {
		return
	}
	if device.IsStarted() {
		if err := device.Stop(); err != nil {
			logger.Warn("failed to stop capture device", "error", err)
		}
	}
	device.Uninit()
}
