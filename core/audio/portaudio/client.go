// Package portaudio provides interview capture and playback on the default
// PortAudio devices.
package portaudio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-interview/core/audio"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var logger = otelslog.NewLogger("github.com/koscakluka/ema-interview/core/audio/portaudio")

type Client struct {
	framesPerBuffer int

	mu     sync.Mutex
	closed bool
}

// NewClient initializes PortAudio. Every client must be closed, after the
// streams it opened.
func NewClient(framesPerBuffer int) (*Client, error) {
	if framesPerBuffer <= 0 {
		framesPerBuffer = audio.DefaultFrameSize
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &Client{framesPerBuffer: framesPerBuffer}, nil
}

func (c *Client) OpenCapture(_ context.Context, encoding audio.EncodingInfo) (audio.CaptureSource, error) {
	capture := &captureStream{sampleRate: encoding.SampleRate}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(encoding.SampleRate), c.framesPerBuffer, capture.process)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}
	capture.stream = stream
	return capture, nil
}

func (c *Client) OpenPlayback(_ context.Context, encoding audio.EncodingInfo) (audio.PlaybackSink, error) {
	timeline := audio.NewTimeline(encoding.SampleRate)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(timeline.SampleRate()), c.framesPerBuffer/4, func(out []float32) {
		timeline.Render(out)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open playback stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("failed to start playback stream: %w", err)
	}

	return audio.NewTimelineSink(timeline, func() { closeStream(stream) }), nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	if err := portaudio.Terminate(); err != nil {
		logger.Warn("failed to terminate portaudio", "error", err)
	}
}

type captureStream struct {
	sampleRate int
	stream     *portaudio.Stream

	mu      sync.Mutex
	onFrame func(frame audio.Frame)
	started bool
}

func (c *captureStream) process(in []float32) {
	c.mu.Lock()
	onFrame := c.onFrame
	c.mu.Unlock()
	if onFrame == nil {
		return
	}

	// PortAudio reuses in between callbacks.
	samples := make([]float32, len(in))
	copy(samples, in)
	onFrame(audio.Frame{Samples: samples, SampleRate: c.sampleRate, Channels: 1, CapturedAt: time.Now()})
}

func (c *captureStream) Stream(_ context.Context, onFrame func(frame audio.Frame)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return fmt.Errorf("capture stream closed")
	} else if c.started {
		return nil
	}

	c.onFrame = onFrame
	if err := c.stream.Start(); err != nil {
		c.onFrame = nil
		return fmt.Errorf("failed to start capture stream: %w", err)
	}
	c.started = true
	return nil
}

func (c *captureStream) Close() {
	c.mu.Lock()
	stream := c.stream
	c.stream, c.onFrame = nil, nil
	c.mu.Unlock()

	if stream != nil {
		closeStream(stream)
	}
}

func closeStream(stream *portaudio.Stream) {
	if err := stream.Stop(); err != nil {
		logger.Debug("failed to stop portaudio stream", "error", err)
	}
	if err := stream.Close(); err != nil {
		logger.Warn("failed to close portaudio stream", "error", err)
	}
}
