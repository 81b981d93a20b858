package audio

import (
	"sync"
	"time"
)

// Timeline mixes buffers scheduled at absolute start times into a pull-style
// output stream. Device sinks call Render from their data callback and use
// Now as their playback clock; the clock only advances as audio is rendered.
type Timeline struct {
	sampleRate int

	mu       sync.Mutex
	position int64
	sources  []*TimelineSource
}

// TimelineSource is a buffer registered on a Timeline.
type TimelineSource struct {
	timeline *Timeline
	samples  []float32
	start    int64
	onEnded  func()
	done     bool
}

func NewTimeline(sampleRate int) *Timeline {
	if sampleRate <= 0 {
		sampleRate = DefaultPlaybackSampleRate
	}
	return &Timeline{sampleRate: sampleRate}
}

func (t *Timeline) SampleRate() int {
	return t.sampleRate
}

// Now returns how much audio has been rendered so far.
func (t *Timeline) Now() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.framesToDuration(t.position)
}

// Schedule registers buf to start playing at the given timeline position.
// Positions already rendered start at the next rendered frame. onEnded is
// called from a separate goroutine once the last sample has been rendered.
func (t *Timeline) Schedule(buf Buffer, at time.Duration, onEnded func()) *TimelineSource {
	samples := buf.Samples
	if buf.SampleRate != 0 && buf.SampleRate != t.sampleRate {
		samples = Resample(samples, buf.SampleRate, t.sampleRate)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	start := t.durationToFrames(at)
	if start < t.position {
		start = t.position
	}
	source := &TimelineSource{
		timeline: t,
		samples:  samples,
		start:    start,
		onEnded:  onEnded,
	}
	t.sources = append(t.sources, source)
	return source
}

// StopAll drops every scheduled source without firing their end callbacks.
func (t *Timeline) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, s := range t.sources {
		s.done = true
	}
	clear(t.sources)
	t.sources = t.sources[:0]
}

// Render fills out with the mix of every source overlapping the next
// len(out) frames and advances the clock.
func (t *Timeline) Render(out []float32) {
	clear(out)

	t.mu.Lock()
	from := t.position
	to := from + int64(len(out))

	var ended []func()
	kept := t.sources[:0]
	for _, s := range t.sources {
		sourceEnd := s.start + int64(len(s.samples))
		for f := max(s.start, from); f < min(sourceEnd, to); f++ {
			out[f-from] += s.samples[f-s.start]
		}

		if sourceEnd <= to {
			s.done = true
			if s.onEnded != nil {
				ended = append(ended, s.onEnded)
			}
			continue
		}
		kept = append(kept, s)
	}
	clear(t.sources[len(kept):])
	t.sources = kept
	t.position = to
	t.mu.Unlock()

	for i, v := range out {
		if v > 1 {
			out[i] = 1
		} else if v < -1 {
			out[i] = -1
		}
	}

	if len(ended) > 0 {
		go func() {
			for _, callback := range ended {
				callback()
			}
		}()
	}
}

// Stop removes the source from its timeline. Stopping a source that already
// finished is a no-op.
func (s *TimelineSource) Stop() {
	t := s.timeline
	t.mu.Lock()
	defer t.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	for i, other := range t.sources {
		if other == s {
			t.sources = append(t.sources[:i], t.sources[i+1:]...)
			break
		}
	}
}

// Start returns the timeline position the source begins playing at.
func (s *TimelineSource) Start() time.Duration {
	return s.timeline.framesToDuration(s.start)
}

func (t *Timeline) framesToDuration(frames int64) time.Duration {
	return time.Duration(frames) * time.Second / time.Duration(t.sampleRate)
}

func (t *Timeline) durationToFrames(d time.Duration) int64 {
	return int64(d) * int64(t.sampleRate) / int64(time.Second)
}
