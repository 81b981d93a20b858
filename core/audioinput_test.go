package interview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koscakluka/ema-interview/core/audio"
)

func TestAudioIngestDropsMutedFramesBeforeQueueing(t *testing.T) {
	muted := atomic.Bool{}
	muted.Store(true)
	ingest := newAudioIngest(&muted, audio.GetDefaultEncodingInfo(), 4, nil)

	for range 10 {
		ingest.onFrame(audio.Frame{Samples: make([]float32, 8), SampleRate: audio.DefaultSampleRate})
	}

	if got := len(ingest.queue); got != 0 {
		t.Fatalf("expected muted frames not to be queued, got %d", got)
	}
	if got := ingest.DroppedFrames(); got != 0 {
		t.Fatalf("expected muted frames not to count as overflow, got %d", got)
	}
}

func TestAudioIngestDropsOnFullQueueWithoutBlocking(t *testing.T) {
	muted := atomic.Bool{}
	ingest := newAudioIngest(&muted, audio.GetDefaultEncodingInfo(), 2, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 5 {
			ingest.onFrame(audio.Frame{Samples: make([]float32, 8), SampleRate: audio.DefaultSampleRate})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected capture callback not to block on a full queue")
	}

	if got := ingest.DroppedFrames(); got != 3 {
		t.Fatalf("expected 3 dropped frames, got %d", got)
	}
}

func TestAudioIngestForwardsInCaptureOrder(t *testing.T) {
	muted := atomic.Bool{}
	received := make(chan int, 8)
	ingest := newAudioIngest(&muted, audio.GetDefaultEncodingInfo(), 8, func(payload []byte) error {
		received <- len(payload)
		return nil
	})
	defer ingest.Stop()

	capture := &testCaptureSource{}
	if err := ingest.Start(context.Background(), capture); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, samples := range []int{1, 2, 3} {
		capture.emit(samples)
	}

	for _, expected := range []int{2, 4, 6} {
		select {
		case got := <-received:
			if got != expected {
				t.Fatalf("expected %d byte payload, got %d", expected, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for forwarded frame")
		}
	}
}

func TestAudioIngestResamplesToOutboundRate(t *testing.T) {
	muted := atomic.Bool{}
	received := make(chan int, 1)
	ingest := newAudioIngest(&muted, audio.GetDefaultEncodingInfo(), 1, func(payload []byte) error {
		received <- len(payload)
		return nil
	})
	defer ingest.Stop()

	if err := ingest.Start(context.Background(), &testCaptureSource{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ingest.onFrame(audio.Frame{Samples: make([]float32, 640), SampleRate: 32000, Channels: 1})

	select {
	case got := <-received:
		if got != 640 {
			t.Fatalf("expected 320 samples at 16kHz (640 bytes), got %d bytes", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for forwarded frame")
	}
}

func TestAudioIngestKeepsForwardingAfterSendErrors(t *testing.T) {
	muted := atomic.Bool{}
	calls := atomic.Int32{}
	ingest := newAudioIngest(&muted, audio.GetDefaultEncodingInfo(), 4, func([]byte) error {
		if calls.Add(1) == 1 {
			return errors.New("socket busy")
		}
		return nil
	})
	defer ingest.Stop()

	capture := &testCaptureSource{}
	if err := ingest.Start(context.Background(), capture); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	capture.emit(4)
	capture.emit(4)

	waitFor(t, "second frame to be forwarded", func() bool { return ingest.ForwardedFrames() == 1 && calls.Load() == 2 })
}

func TestAudioIngestStopIgnoresLaterFrames(t *testing.T) {
	muted := atomic.Bool{}
	ingest := newAudioIngest(&muted, audio.GetDefaultEncodingInfo(), 4, nil)

	ingest.Stop()
	ingest.Stop()
	ingest.onFrame(audio.Frame{Samples: make([]float32, 8)})

	if got := len(ingest.queue); got != 0 {
		t.Fatalf("expected stopped ingest to ignore frames, got %d queued", got)
	}
}
