package interview

import (
	"github.com/koscakluka/ema-interview/core/events"
	"github.com/koscakluka/ema-interview/core/outcome"
)

// notifier fans session notifications out to the callbacks registered on
// Start. The zero value drops everything.
type notifier struct {
	opts StartOptions
}

func newNotifier(opts ...StartOption) notifier {
	n := notifier{}
	for _, opt := range opts {
		opt(&n.opts)
	}
	return n
}

func (n notifier) event(event events.Event) {
	if n.opts.onEvent != nil {
		n.opts.onEvent(event)
	}
}

func (n notifier) transcriptAppended(lines []TranscriptLine) {
	if n.opts.onTranscriptAppended != nil && len(lines) > 0 {
		n.opts.onTranscriptAppended(lines)
	}
}

func (n notifier) outcomeProduced(result outcome.CallOutcome) {
	if n.opts.onOutcome != nil {
		n.opts.onOutcome(result)
	}
}

func (n notifier) stateChanged(state State) {
	if n.opts.onStateChanged != nil {
		n.opts.onStateChanged(state)
	}
}

func (n notifier) failed(err error) {
	if n.opts.onError != nil {
		n.opts.onError(err)
	}
}
