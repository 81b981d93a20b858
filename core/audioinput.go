package interview

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-interview/core/audio"
)

const defaultIngestQueueSize = 32

// audioIngest forwards captured frames to the remote channel. The capture
// callback only checks the mute flag and enqueues; a single sender goroutine
// encodes and sends so frames leave in capture order.
type audioIngest struct {
	// muted is owned by the session and shared with the capture callback.
	muted *atomic.Bool
	// encoding is the outbound wire encoding.
	encoding audio.EncodingInfo

	send func(payload []byte) error
	// tee receives every forwarded payload, used to feed a caller
	// transcriber.
	tee func(payload []byte)

	queue    chan audio.Frame
	stopCh   chan struct{}
	stopOnce sync.Once

	started atomic.Bool
	stopped atomic.Bool

	dropped   atomic.Int64
	forwarded atomic.Int64
}

func newAudioIngest(muted *atomic.Bool, encoding audio.EncodingInfo, queueSize int, send func([]byte) error) *audioIngest {
	if queueSize <= 0 {
		queueSize = defaultIngestQueueSize
	}
	if send == nil {
		send = func([]byte) error { return nil }
	}

	return &audioIngest{
		muted:    muted,
		encoding: encoding,
		send:     send,
		queue:    make(chan audio.Frame, queueSize),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sender and subscribes to the capture source.
func (a *audioIngest) Start(ctx context.Context, source CaptureSource) error {
	if a == nil || a.stopped.Load() || !a.started.CompareAndSwap(false, true) {
		return nil
	}

	go func() {
		if err := panicSafeNamedWorker("audio ingest", a.forward)(ctx); err != nil {
			logger.Error("audio ingest stopped", "error", err)
		}
	}()

	return source.Stream(ctx, a.onFrame)
}

func (a *audioIngest) Stop() {
	if a == nil {
		return
	}

	a.stopOnce.Do(func() {
		a.stopped.Store(true)
		close(a.stopCh)
	})
}

// onFrame runs on the capture device's thread and never blocks.
func (a *audioIngest) onFrame(frame audio.Frame) {
	if a.stopped.Load() || a.muted.Load() {
		return
	}

	select {
	case a.queue <- frame:
	default:
		a.dropped.Add(1)
		droppedFramesCounter.Add(context.Background(), 1)
	}
}

func (a *audioIngest) forward(ctx context.Context) error {
	for {
		select {
		case <-a.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		case frame := <-a.queue:
			// Frames queued before a mute are dropped as well.
			if a.muted.Load() || a.stopped.Load() {
				continue
			}

			payload := audio.EncodeLinear16(a.prepare(frame))
			if err := a.send(payload); err != nil {
				logger.Warn("failed to forward audio frame", "error", err)
				continue
			}
			a.forwarded.Add(1)
			forwardedFramesCounter.Add(ctx, 1)

			if a.tee != nil {
				a.tee(payload)
			}
		}
	}
}

func (a *audioIngest) prepare(frame audio.Frame) []float32 {
	samples := audio.Downmix(frame.Samples, frame.Channels)
	if frame.SampleRate != 0 && frame.SampleRate != a.encoding.SampleRate {
		samples = audio.Resample(samples, frame.SampleRate, a.encoding.SampleRate)
	}
	return samples
}

func (a *audioIngest) DroppedFrames() int64   { return a.dropped.Load() }
func (a *audioIngest) ForwardedFrames() int64 { return a.forwarded.Load() }
