package interview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koscakluka/ema-interview/core/audio"
	"github.com/koscakluka/ema-interview/core/events"
	"github.com/koscakluka/ema-interview/core/live"
	"github.com/koscakluka/ema-interview/core/speechtotext"
)

type testScheduledSource struct {
	stopped atomic.Int32
}

func (s *testScheduledSource) Stop() { s.stopped.Add(1) }

type testScheduledCall struct {
	start    time.Duration
	duration time.Duration
	source   *testScheduledSource
	onEnded  func()
}

type testPlaybackSink struct {
	mu        sync.Mutex
	clock     time.Duration
	scheduled []testScheduledCall
	stopAll   atomic.Int32
	closed    atomic.Int32
	// scheduledAfterStop counts buffers scheduled after StopAll or Close.
	scheduledAfterStop atomic.Int32
}

func (s *testPlaybackSink) CurrentTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

func (s *testPlaybackSink) setClock(clock time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *testPlaybackSink) ScheduleBuffer(buffer audio.Buffer, at time.Duration, onEnded func()) (ScheduledSource, error) {
	if s.stopAll.Load() > 0 || s.closed.Load() > 0 {
		s.scheduledAfterStop.Add(1)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	source := &testScheduledSource{}
	s.scheduled = append(s.scheduled, testScheduledCall{start: at, duration: buffer.Duration, source: source, onEnded: onEnded})
	return source, nil
}

func (s *testPlaybackSink) calls() []testScheduledCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]testScheduledCall(nil), s.scheduled...)
}

func (s *testPlaybackSink) StopAll() { s.stopAll.Add(1) }
func (s *testPlaybackSink) Close()   { s.closed.Add(1) }

type testCaptureSource struct {
	mu      sync.Mutex
	onFrame func(audio.Frame)
	streams atomic.Int32
	closed  atomic.Int32
}

func (c *testCaptureSource) Stream(_ context.Context, onFrame func(audio.Frame)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFrame = onFrame
	c.streams.Add(1)
	return nil
}

func (c *testCaptureSource) Close() { c.closed.Add(1) }

// emit delivers a frame the way a device callback would. It reports false
// when nothing is subscribed yet.
func (c *testCaptureSource) emit(samples int) bool {
	c.mu.Lock()
	onFrame := c.onFrame
	c.mu.Unlock()
	if onFrame == nil {
		return false
	}

	onFrame(audio.Frame{
		Samples:    make([]float32, samples),
		SampleRate: audio.DefaultSampleRate,
		Channels:   1,
		CapturedAt: time.Now(),
	})
	return true
}

type testDevices struct {
	capture    *testCaptureSource
	sink       *testPlaybackSink
	captureErr error
	sinkErr    error
}

func newTestDevices() *testDevices {
	return &testDevices{capture: &testCaptureSource{}, sink: &testPlaybackSink{}}
}

func (d *testDevices) OpenCapture(context.Context, audio.EncodingInfo) (CaptureSource, error) {
	if d.captureErr != nil {
		return nil, d.captureErr
	}
	return d.capture, nil
}

func (d *testDevices) OpenPlayback(context.Context, audio.EncodingInfo) (PlaybackSink, error) {
	if d.sinkErr != nil {
		return nil, d.sinkErr
	}
	return d.sink, nil
}

type testChannel struct {
	sent   atomic.Int32
	closed atomic.Int32
	// sentAfterClose counts sends that arrived once Close was called.
	sentAfterClose atomic.Int32
}

func (c *testChannel) SendAudio([]byte) error {
	if c.closed.Load() > 0 {
		c.sentAfterClose.Add(1)
	}
	c.sent.Add(1)
	return nil
}

func (c *testChannel) Close() error {
	c.closed.Add(1)
	return nil
}

type testRemoteChannel struct {
	mu         sync.Mutex
	options    live.ConnectOptions
	channel    *testChannel
	connects   atomic.Int32
	connectErr error
	// onConnect is emitted right after a successful connect.
	onConnect events.Event
}

func newTestRemoteChannel() *testRemoteChannel {
	return &testRemoteChannel{channel: &testChannel{}, onConnect: events.NewChannelOpened()}
}

func (r *testRemoteChannel) Connect(_ context.Context, opts ...live.ConnectOption) (Channel, error) {
	r.connects.Add(1)
	if r.connectErr != nil {
		return nil, r.connectErr
	}

	options := live.NewConnectOptions(opts...)
	r.mu.Lock()
	r.options = options
	r.mu.Unlock()

	if r.onConnect != nil {
		go options.EventCallback(r.onConnect)
	}
	return r.channel, nil
}

func (r *testRemoteChannel) connectOptions() live.ConnectOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.options
}

func (r *testRemoteChannel) emit(event events.Event) {
	r.connectOptions().EventCallback(event)
}

type testSpeechToText struct {
	mu       sync.Mutex
	onFinal  func(string)
	received atomic.Int32
	err      error
}

var errTestTranscriber = errors.New("transcriber unavailable")

func (s *testSpeechToText) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	if s.err != nil {
		return s.err
	}

	options := speechtotext.NewTranscriptionOptions(opts...)
	s.mu.Lock()
	s.onFinal = options.PartialTranscriptionCallback
	s.mu.Unlock()
	return nil
}

func (s *testSpeechToText) SendAudio([]byte) error {
	s.received.Add(1)
	return nil
}

func (s *testSpeechToText) say(segment string) {
	s.mu.Lock()
	onFinal := s.onFinal
	s.mu.Unlock()
	onFinal(segment)
}

func waitFor(t *testing.T, description string, condition func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", description)
}

func linear16Chunk(duration time.Duration) []byte {
	samples := int(duration * audio.DefaultPlaybackSampleRate / time.Second)
	return make([]byte, samples*2)
}
