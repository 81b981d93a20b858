package interview

import (
	"context"
	"sync"
	"time"

	"github.com/koscakluka/ema-interview/core/events"
)

const sessionEventQueueCapacity = 64

type eventQueueItem struct {
	event    events.Event
	queuedAt time.Time
}

// sessionRuntime is the single reactor of a session. Remote channel events
// are queued from whatever goroutine delivers them and handled one at a time.
type sessionRuntime struct {
	queue   chan eventQueueItem
	closeCh chan struct{}

	startOnce sync.Once
	endOnce   sync.Once
}

func newSessionRuntime() *sessionRuntime {
	return &sessionRuntime{
		queue:   make(chan eventQueueItem, sessionEventQueueCapacity),
		closeCh: make(chan struct{}),
	}
}

func (runtime *sessionRuntime) start(ctx context.Context, handle func(context.Context, events.Event)) (started bool) {
	if runtime.isClosed() {
		return false
	}

	runtime.startOnce.Do(func() {
		if runtime.isClosed() {
			return
		}

		started = true
		go func() {
			for {
				select {
				case <-runtime.closeCh:
					return
				case queued := <-runtime.queue:
					if runtime.isClosed() {
						return
					}
					handleQueued := func(ctx context.Context) error {
						handle(ctx, queued.event)
						return nil
					}
					if err := panicSafeNamedWorker("session event "+string(queued.event.Kind()), handleQueued)(ctx); err != nil {
						logger.Error("failed to handle session event", "error", err, "queued_for", time.Since(queued.queuedAt))
					}
				}
			}
		}()
	})

	return started
}

func (runtime *sessionRuntime) end() {
	runtime.endOnce.Do(func() {
		close(runtime.closeCh)
	})
}

// enqueue blocks while the queue is full, which pushes back on the channel's
// receive loop instead of dropping events.
func (runtime *sessionRuntime) enqueue(event events.Event) bool {
	if event == nil || runtime.isClosed() {
		return false
	}

	select {
	case <-runtime.closeCh:
		return false
	case runtime.queue <- eventQueueItem{event: event, queuedAt: time.Now()}:
		return true
	}
}

func (runtime *sessionRuntime) isClosed() bool {
	select {
	case <-runtime.closeCh:
		return true
	default:
		return false
	}
}
