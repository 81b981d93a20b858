package miniaudio

import (
	"testing"

	"github.com/gen2brain/malgo"
)

func TestCaptureDeviceConfigUsesConfiguredPeriod(t *testing.T) {
	config := captureDeviceConfig(16000, 1024)

	if config.PeriodSizeInFrames != 1024 {
		t.Fatalf("expected period of 1024 frames, got %d", config.PeriodSizeInFrames)
	}
	if config.SampleRate != 16000 {
		t.Fatalf("expected 16000 Hz, got %d", config.SampleRate)
	}
	if config.Capture.Format != malgo.FormatF32 || config.Capture.Channels != 1 {
		t.Fatalf("expected mono f32 capture, got format %v with %d channels", config.Capture.Format, config.Capture.Channels)
	}
}
