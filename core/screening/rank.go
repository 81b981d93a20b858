package screening

import (
	"cmp"
	"slices"

	"github.com/koscakluka/ema-interview/core/outcome"
)

// Result is everything known about one candidate after screening.
type Result struct {
	Role       Role
	Evaluation Evaluation
	// Outcome is nil until the candidate has been interviewed.
	Outcome *outcome.CallOutcome
}

func (r Result) Interviewed() bool { return r.Outcome != nil }

// ComprehensiveScore averages the CV match and the interview score.
func (r Result) ComprehensiveScore() float64 {
	if r.Outcome == nil {
		return float64(r.Evaluation.MatchScore)
	}
	return float64(r.Evaluation.MatchScore+r.Outcome.Score) / 2
}

// Rank returns the interviewed candidates, best interview first. Equal
// interview scores are ordered by CV match.
func Rank(results []Result) []Result {
	ranked := make([]Result, 0, len(results))
	for _, result := range results {
		if result.Interviewed() {
			ranked = append(ranked, result)
		}
	}

	slices.SortStableFunc(ranked, func(a, b Result) int {
		if c := cmp.Compare(b.Outcome.Score, a.Outcome.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.Evaluation.MatchScore, a.Evaluation.MatchScore)
	})
	return ranked
}
