// Package outcome detects the end of an interview in the agent's speech and
// turns the structured markers it carries into a CallOutcome.
//
// The agent closes a call by saying an assessment followed by
//
//	[VERDICT:HIRE] [SCORE:87] THANK_YOU_CALL_FINISHED
//
// Missing or unparsable markers fall back to DefaultVerdict and DefaultScore.
package outcome

import (
	"strconv"
	"time"
)

type Verdict string

const (
	VerdictHire   Verdict = "HIRE"
	VerdictReject Verdict = "REJECT"
	VerdictMaybe  Verdict = "MAYBE"
)

const (
	// Sentinel is the literal the agent says once the interview is over.
	Sentinel = "THANK_YOU_CALL_FINISHED"

	MarkerVerdict = "VERDICT"
	MarkerScore   = "SCORE"

	DefaultVerdict = VerdictMaybe
	DefaultScore   = 50

	MinScore = 0
	MaxScore = 100
)

// CallOutcome is the final assessment produced at the end of a call.
type CallOutcome struct {
	Verdict        Verdict
	Score          int
	AssessmentText string
	ProducedAt     time.Time
}

// Tag formats a marker the way the parser expects it, e.g. "[SCORE:87]".
func Tag(key, value string) string {
	return "[" + key + ":" + value + "]"
}

func VerdictTag(verdict Verdict) string {
	return Tag(MarkerVerdict, string(verdict))
}

func ScoreTag(score int) string {
	return Tag(MarkerScore, strconv.Itoa(score))
}

func clampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}
