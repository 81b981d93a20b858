package audio

import (
	"testing"
	"time"
)

func TestTimelineRendersScheduledBufferAtStart(t *testing.T) {
	timeline := NewTimeline(4)

	ended := make(chan struct{}, 1)
	timeline.Schedule(NewBuffer([]float32{0.5, 0.5}, 4), 500*time.Millisecond, func() { ended <- struct{}{} })

	out := make([]float32, 4)
	timeline.Render(out)

	expected := []float32{0, 0, 0.5, 0.5}
	for i := range expected {
		if out[i] != expected[i] {
			t.Fatalf("expected frame %d to be %v, got %v", i, expected[i], out[i])
		}
	}

	select {
	case <-ended:
	case <-time.After(time.Second):
		t.Fatalf("expected end callback after the buffer was rendered")
	}

	if now := timeline.Now(); now != time.Second {
		t.Fatalf("expected clock at 1s, got %v", now)
	}
}

func TestTimelineMixesOverlappingSources(t *testing.T) {
	timeline := NewTimeline(4)
	timeline.Schedule(NewBuffer([]float32{0.25, 0.25}, 4), 0, nil)
	timeline.Schedule(NewBuffer([]float32{0.5, 0.9}, 4), 250*time.Millisecond, nil)

	out := make([]float32, 4)
	timeline.Render(out)

	expected := []float32{0.25, 0.75, 0.9, 0}
	for i := range expected {
		if out[i] != expected[i] {
			t.Fatalf("expected frame %d to be %v, got %v", i, expected[i], out[i])
		}
	}
}

func TestTimelineClampsMixedSamples(t *testing.T) {
	timeline := NewTimeline(4)
	timeline.Schedule(NewBuffer([]float32{0.8}, 4), 0, nil)
	timeline.Schedule(NewBuffer([]float32{0.8}, 4), 0, nil)

	out := make([]float32, 1)
	timeline.Render(out)
	if out[0] != 1 {
		t.Fatalf("expected clamped sample, got %v", out[0])
	}
}

func TestTimelineStopAllSilencesPendingAudio(t *testing.T) {
	timeline := NewTimeline(4)
	ended := make(chan struct{}, 1)
	timeline.Schedule(NewBuffer([]float32{0.5, 0.5, 0.5, 0.5}, 4), 0, func() { ended <- struct{}{} })

	out := make([]float32, 2)
	timeline.Render(out)
	timeline.StopAll()
	timeline.Render(out)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("expected silence at frame %d after stop, got %v", i, v)
		}
	}

	select {
	case <-ended:
		t.Fatalf("expected no end callback for a stopped source")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimelineSourceStopIsIdempotent(t *testing.T) {
	timeline := NewTimeline(4)
	source := timeline.Schedule(NewBuffer([]float32{0.5}, 4), 0, nil)
	other := timeline.Schedule(NewBuffer([]float32{0.25}, 4), 0, nil)

	source.Stop()
	source.Stop()

	out := make([]float32, 1)
	timeline.Render(out)
	if out[0] != 0.25 {
		t.Fatalf("expected only the remaining source to play, got %v", out[0])
	}

	other.Stop()
}

func TestTimelineSchedulesLateBuffersAtClock(t *testing.T) {
	timeline := NewTimeline(4)
	timeline.Render(make([]float32, 8))

	source := timeline.Schedule(NewBuffer([]float32{0.5}, 4), 0, nil)
	if source.Start() != 2*time.Second {
		t.Fatalf("expected late buffer to start at the clock, got %v", source.Start())
	}
}

func TestTimelineSinkReleasesOnce(t *testing.T) {
	timeline := NewTimeline(8)
	releases := 0
	sink := NewTimelineSink(timeline, func() { releases++ })

	source, err := sink.ScheduleBuffer(NewBuffer([]float32{0.5, 0.5}, 8), 0, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	source.Stop()

	sink.Close()
	sink.Close()
	if releases != 1 {
		t.Fatalf("expected device released once, got %d", releases)
	}

	out := make([]float32, 4)
	timeline.Render(out)
	if sink.CurrentTime() != 500*time.Millisecond {
		t.Fatalf("expected clock at 500ms, got %v", sink.CurrentTime())
	}
	for _, v := range out {
		if v != 0 {
			t.Fatalf("expected silence after stop, got %v", out)
		}
	}
}
