package interview

import (
	"slices"
	"strings"
	"sync"
	"time"
)

type Speaker string

const (
	SpeakerCaller Speaker = "caller"
	SpeakerAgent  Speaker = "agent"
)

// TranscriptLine is one speaker's text for one turn.
type TranscriptLine struct {
	Speaker   Speaker
	Text      string
	TurnIndex int
	At        time.Time
}

// transcriptAggregator collects transcription deltas per speaker and turns
// them into lines when a turn completes.
type transcriptAggregator struct {
	mu        sync.Mutex
	caller    strings.Builder
	agent     strings.Builder
	turnIndex int
	lines     []TranscriptLine
}

func newTranscriptAggregator() *transcriptAggregator {
	return &transcriptAggregator{}
}

func (a *transcriptAggregator) AppendCaller(delta string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.caller.WriteString(delta)
}

func (a *transcriptAggregator) AppendAgent(delta string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.agent.WriteString(delta)
}

// CompleteTurn closes the current turn. It returns the lines appended for it,
// caller first, and the agent's untrimmed text for the turn.
func (a *transcriptAggregator) CompleteTurn(at time.Time) (appended []TranscriptLine, agentText string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	agentText = a.agent.String()
	for _, pending := range []struct {
		speaker Speaker
		text    string
	}{
		{speaker: SpeakerCaller, text: a.caller.String()},
		{speaker: SpeakerAgent, text: agentText},
	} {
		text := strings.TrimSpace(pending.text)
		if text == "" {
			continue
		}
		appended = append(appended, TranscriptLine{
			Speaker:   pending.speaker,
			Text:      text,
			TurnIndex: a.turnIndex,
			At:        at,
		})
	}

	a.lines = append(a.lines, appended...)
	a.caller.Reset()
	a.agent.Reset()
	a.turnIndex++
	return appended, agentText
}

func (a *transcriptAggregator) Lines() []TranscriptLine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.lines)
}
