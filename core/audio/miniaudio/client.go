// Package miniaudio provides interview capture and playback on the system's
// default devices through miniaudio.
package miniaudio

import (
	"context"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-interview/core/audio"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/koscakluka/ema-interview/core/audio/miniaudio"

var logger = otelslog.NewLogger(scopeName)

type Client struct {
	// audioContext is only kept so it can be released on Close; devices
	// opened from it must be closed first.
	audioContext *malgo.AllocatedContext
	// framesPerBuffer is the capture period, one frame callback per period.
	framesPerBuffer int

	mu     sync.Mutex
	closed bool
}

func NewClient(framesPerBuffer int) (*Client, error) {
	if framesPerBuffer <= 0 {
		framesPerBuffer = audio.DefaultFrameSize
	}

	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize miniaudio context: %w", err)
	}

	return &Client{audioContext: audioCtx, framesPerBuffer: framesPerBuffer}, nil
}

// OpenCapture initializes the default microphone as mono float samples at
// the encoding's sample rate. Capture starts on Stream.
func (c *Client) OpenCapture(_ context.Context, encoding audio.EncodingInfo) (audio.CaptureSource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("audio client closed")
	}

	capture := &captureDevice{sampleRate: encoding.SampleRate, periodSize: c.framesPerBuffer}
	if err := capture.init(c.audioContext); err != nil {
		return nil, err
	}
	return capture, nil
}

// OpenPlayback initializes and starts the default speaker. Scheduled
// buffers are mixed into its output as it pulls audio.
func (c *Client) OpenPlayback(_ context.Context, encoding audio.EncodingInfo) (audio.PlaybackSink, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("audio client closed")
	}

	playback := &playbackDevice{timeline: audio.NewTimeline(encoding.SampleRate)}
	if err := playback.init(c.audioContext); err != nil {
		return nil, err
	}
	if err := playback.start(); err != nil {
		playback.uninit()
		return nil, err
	}
	return audio.NewTimelineSink(playback.timeline, playback.uninit), nil
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true

	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}
