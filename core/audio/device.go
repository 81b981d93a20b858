package audio

import (
	"context"
	"sync"
	"time"
)

// CaptureSource starts delivering frames to onFrame and returns. onFrame is
// called on the device's real-time thread and must not block.
type CaptureSource interface {
	Stream(ctx context.Context, onFrame func(frame Frame)) error
	Close()
}

// PlaybackSink plays buffers at absolute positions of its own clock.
// onEnded must be called asynchronously, never from within ScheduleBuffer.
type PlaybackSink interface {
	CurrentTime() time.Duration
	ScheduleBuffer(buffer Buffer, at time.Duration, onEnded func()) (ScheduledSource, error)
	StopAll()
	Close()
}

// ScheduledSource is a buffer registered on a PlaybackSink. Stopping a
// source that already finished is a no-op.
type ScheduledSource interface {
	Stop()
}

// TimelineSink adapts a Timeline rendered by a pull-style output device to
// a PlaybackSink.
type TimelineSink struct {
	timeline *Timeline

	closeOnce sync.Once
	release   func()
}

// NewTimelineSink wraps timeline. release is called once on Close and
// should stop the device rendering it.
func NewTimelineSink(timeline *Timeline, release func()) *TimelineSink {
	return &TimelineSink{timeline: timeline, release: release}
}

func (s *TimelineSink) CurrentTime() time.Duration { return s.timeline.Now() }

func (s *TimelineSink) ScheduleBuffer(buffer Buffer, at time.Duration, onEnded func()) (ScheduledSource, error) {
	return s.timeline.Schedule(buffer, at, onEnded), nil
}

func (s *TimelineSink) StopAll() { s.timeline.StopAll() }

func (s *TimelineSink) Close() {
	s.closeOnce.Do(func() {
		s.timeline.StopAll()
		if s.release != nil {
			s.release()
		}
	})
}
