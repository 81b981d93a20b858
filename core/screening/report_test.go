package screening

import (
	"strings"
	"testing"

	"github.com/koscakluka/ema-interview/core/outcome"
)

func interviewed(name string, match, call int, verdict outcome.Verdict) Result {
	return Result{
		Role:       Role{Title: "Backend Engineer"},
		Evaluation: Evaluation{CandidateName: name, PhoneNumber: "+1 555", MatchScore: match, Recommendation: "cv notes"},
		Outcome:    &outcome.CallOutcome{Verdict: verdict, Score: call, AssessmentText: name + " did well"},
	}
}

func TestRankOrdersByCallThenMatchScore(t *testing.T) {
	ranked := Rank([]Result{
		interviewed("low", 90, 40, outcome.VerdictReject),
		{Evaluation: Evaluation{CandidateName: "not called", MatchScore: 99}},
		interviewed("tie-lower-cv", 60, 80, outcome.VerdictHire),
		interviewed("top", 50, 95, outcome.VerdictHire),
		interviewed("tie-higher-cv", 70, 80, outcome.VerdictHire),
	})

	expected := []string{"top", "tie-higher-cv", "tie-lower-cv", "low"}
	if len(ranked) != len(expected) {
		t.Fatalf("expected %d ranked candidates, got %d", len(expected), len(ranked))
	}
	for i, name := range expected {
		if ranked[i].Evaluation.CandidateName != name {
			t.Fatalf("expected %s at %d, got %s", name, i, ranked[i].Evaluation.CandidateName)
		}
	}
}

func TestNewReportRowMapsVerdictAndScores(t *testing.T) {
	row, err := NewReportRow(interviewed("Priya", 70, 85, outcome.VerdictHire))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if row.Candidate != "Priya" || row.Phone != "+1 555" || row.Role != "Backend Engineer" {
		t.Fatalf("unexpected identity columns %+v", row)
	}
	if row.CVScore != 70 || row.InterviewScore != 85 || row.ComprehensiveScore != 77.5 {
		t.Fatalf("unexpected scores %+v", row)
	}
	if row.FinalVerdict != FinalVerdictSelect || row.DetailedFeedback != "Priya did well" {
		t.Fatalf("unexpected verdict or feedback %+v", row)
	}

	maybe, err := NewReportRow(interviewed("Sam", 70, 55, outcome.VerdictMaybe))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if maybe.FinalVerdict != FinalVerdictReject {
		t.Fatalf("expected MAYBE to be reported as REJECT, got %s", maybe.FinalVerdict)
	}
}

func TestWriteReport(t *testing.T) {
	var b strings.Builder
	err := WriteReport(&b, []Result{
		interviewed("Sam", 60, 70, outcome.VerdictReject),
		interviewed("Priya, R.", 80, 90, outcome.VerdictHire),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Candidate,Phone,Role,CV_Score,Interview_Score,Comprehensive_Score,Final_Verdict,Detailed_Feedback" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"Priya, R.",+1 555,Backend Engineer,80,90,85.0,SELECT,`) {
		t.Fatalf("unexpected first row %q", lines[1])
	}
}
