package interview

import (
	"strings"
	"testing"
)

func TestBuildSystemInstructionIncludesCandidateAndMarkers(t *testing.T) {
	requirements := strings.Repeat("Go services and distributed systems. ", 10)
	instruction, err := BuildSystemInstruction("", Candidate{
		Name:             "Priya Raman",
		RoleTitle:        "Backend Engineer",
		RoleRequirements: requirements,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, expected := range []string{
		"Priya Raman",
		"Backend Engineer",
		DefaultOrganization,
		"[SCORE:XX]",
		"[VERDICT:HIRE]",
		"[VERDICT:REJECT]",
		"THANK_YOU_CALL_FINISHED",
		strings.TrimSpace(requirements),
	} {
		if !strings.Contains(instruction, expected) {
			t.Fatalf("expected instruction to contain %q", expected)
		}
	}
}

func TestExcerptCutsOnRunes(t *testing.T) {
	text := strings.Repeat("é", 120)
	got := excerpt(text, 100)
	if got != strings.Repeat("é", 100)+"..." {
		t.Fatalf("unexpected excerpt %q", got)
	}
	if short := excerpt("  short   text ", 100); short != "short text" {
		t.Fatalf("expected whitespace to be collapsed, got %q", short)
	}
}
