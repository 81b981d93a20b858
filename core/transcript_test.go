package interview

import (
	"testing"
	"time"
)

func TestTranscriptEmptyTurnAppendsNothing(t *testing.T) {
	aggregator := newTranscriptAggregator()
	aggregator.AppendCaller("   ")

	lines, agentText := aggregator.CompleteTurn(time.Now())
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
	if agentText != "" {
		t.Fatalf("expected empty agent text, got %q", agentText)
	}
}

func TestTranscriptOneSidedTurnAppendsOneLine(t *testing.T) {
	aggregator := newTranscriptAggregator()
	aggregator.AppendAgent("Hello, ")
	aggregator.AppendAgent("is this Priya?")

	lines, _ := aggregator.CompleteTurn(time.Now())
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if lines[0].Speaker != SpeakerAgent || lines[0].Text != "Hello, is this Priya?" {
		t.Fatalf("unexpected line %+v", lines[0])
	}
}

func TestTranscriptOrdersCallerBeforeAgent(t *testing.T) {
	aggregator := newTranscriptAggregator()
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	aggregator.AppendAgent("That sounds ")
	aggregator.AppendCaller(" I built ")
	aggregator.AppendAgent("great.")
	aggregator.AppendCaller("a payments service.")

	lines, agentText := aggregator.CompleteTurn(at)
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	if lines[0].Speaker != SpeakerCaller || lines[0].Text != "I built a payments service." {
		t.Fatalf("unexpected caller line %+v", lines[0])
	}
	if lines[1].Speaker != SpeakerAgent || lines[1].Text != "That sounds great." {
		t.Fatalf("unexpected agent line %+v", lines[1])
	}
	for _, line := range lines {
		if !line.At.Equal(at) || line.TurnIndex != 0 {
			t.Fatalf("expected line stamped with turn 0 at boundary, got %+v", line)
		}
	}
	if agentText != "That sounds great." {
		t.Fatalf("unexpected agent text %q", agentText)
	}
}

func TestTranscriptClearsBetweenTurns(t *testing.T) {
	aggregator := newTranscriptAggregator()
	aggregator.AppendCaller("first")
	aggregator.CompleteTurn(time.Now())

	aggregator.AppendAgent("second")
	lines, _ := aggregator.CompleteTurn(time.Now())
	if len(lines) != 1 || lines[0].Text != "second" || lines[0].TurnIndex != 1 {
		t.Fatalf("expected only the second turn's agent line, got %+v", lines)
	}

	if all := aggregator.Lines(); len(all) != 2 {
		t.Fatalf("expected 2 lines in total, got %d", len(all))
	}
}
