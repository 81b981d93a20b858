package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/koscakluka/ema-interview/core/audio"
)

var errPlaybackStopped = errors.New("playback stopped")

// playbackScheduler lays inbound agent audio back to back on the sink's
// clock and drops everything still queued when the caller barges in.
type playbackScheduler struct {
	sink     PlaybackSink
	encoding audio.EncodingInfo

	mu        sync.Mutex
	nextStart time.Duration
	sources   map[*scheduledBuffer]struct{}
	stopped   bool
}

type scheduledBuffer struct {
	source   ScheduledSource
	start    time.Duration
	duration time.Duration
}

func newPlaybackScheduler(sink PlaybackSink, encoding audio.EncodingInfo) *playbackScheduler {
	if encoding.IsZero() {
		encoding = audio.GetDefaultPlaybackEncodingInfo()
	}
	return &playbackScheduler{
		sink:     sink,
		encoding: encoding,
		sources:  map[*scheduledBuffer]struct{}{},
	}
}

// Enqueue decodes a chunk and schedules it right after everything already
// queued, or immediately when the queue has drained. It returns the start
// position on the sink's clock.
func (p *playbackScheduler) Enqueue(chunk []byte) (time.Duration, error) {
	buffer, err := audio.DecodeLinear16(chunk, p.encoding.SampleRate)
	if err != nil {
		return 0, fmt.Errorf("failed to decode audio chunk: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return 0, errPlaybackStopped
	}

	p.nextStart = max(p.nextStart, p.sink.CurrentTime())
	scheduled := &scheduledBuffer{start: p.nextStart, duration: buffer.Duration}
	source, err := p.sink.ScheduleBuffer(buffer, scheduled.start, func() { p.release(scheduled) })
	if err != nil {
		return 0, fmt.Errorf("failed to schedule audio buffer: %w", err)
	}

	scheduled.source = source
	p.sources[scheduled] = struct{}{}
	p.nextStart += buffer.Duration
	scheduledBuffersCounter.Add(context.Background(), 1)
	return scheduled.start, nil
}

// Interrupt stops every scheduled buffer and moves the cursor back to the
// sink's current clock.
func (p *playbackScheduler) Interrupt() {
	p.mu.Lock()
	pending := p.sources
	p.sources = map[*scheduledBuffer]struct{}{}
	p.nextStart = p.sink.CurrentTime()
	p.mu.Unlock()

	for scheduled := range pending {
		scheduled.source.Stop()
	}
	interruptionsCounter.Add(context.Background(), 1)
}

// Stop interrupts playback and refuses any further chunks.
func (p *playbackScheduler) Stop() {
	if p == nil {
		return
	}

	p.mu.Lock()
	alreadyStopped := p.stopped
	p.stopped = true
	p.mu.Unlock()
	if alreadyStopped {
		return
	}

	p.Interrupt()
	p.sink.StopAll()
}

func (p *playbackScheduler) release(scheduled *scheduledBuffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sources, scheduled)
}

// Pending returns how many buffers are scheduled and not yet finished.
func (p *playbackScheduler) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sources)
}

func (p *playbackScheduler) NextStart() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextStart
}
