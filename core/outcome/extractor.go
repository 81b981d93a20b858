package outcome

import (
	"sync"
	"time"
)

// Extractor produces at most one CallOutcome over its lifetime.
type Extractor struct {
	mu       sync.Mutex
	produced *CallOutcome

	clamp bool
	now   func() time.Time
}

type ExtractorOption func(*Extractor)

// WithoutScoreClamp keeps scores outside [MinScore, MaxScore] as the agent
// said them.
func WithoutScoreClamp() ExtractorOption {
	return func(e *Extractor) {
		e.clamp = false
	}
}

func WithClock(now func() time.Time) ExtractorOption {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{clamp: true, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract inspects the finalised agent text of one turn. It returns the
// outcome and true only for the first text that carries the sentinel.
func (e *Extractor) Extract(agentText string) (CallOutcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.produced != nil {
		return CallOutcome{}, false
	}

	parsed := Parse(agentText)
	if !parsed.SentinelFound {
		return CallOutcome{}, false
	}

	score := parsed.Score
	if e.clamp {
		score = clampScore(score)
	}

	outcome := CallOutcome{
		Verdict:        parsed.Verdict,
		Score:          score,
		AssessmentText: parsed.Text,
		ProducedAt:     e.now(),
	}
	e.produced = &outcome
	return outcome, true
}

// Outcome returns the produced outcome, if any.
func (e *Extractor) Outcome() (CallOutcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.produced == nil {
		return CallOutcome{}, false
	}
	return *e.produced, true
}
