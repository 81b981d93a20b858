package interview

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/koscakluka/ema-interview/core/outcome"
)

const (
	DefaultOrganization = "Teachmint"
	DefaultVoice        = "Kore"

	requirementsExcerptLength = 100
)

// Candidate identifies who is being interviewed and for what.
type Candidate struct {
	Name             string
	RoleTitle        string
	RoleRequirements string
}

var systemInstructionTemplate = template.Must(template.New("system_instruction").Parse(
	`You are a recruiter at {{.Organization}} calling {{.CandidateName}} for a short screening interview about the {{.RoleTitle}} position.

The role in a sentence: {{.RequirementsExcerpt}}

How to run the call:
1. Greet {{.CandidateName}} warmly, introduce yourself and confirm they have a few minutes.
2. Ask three or four focused questions that test the requirements listed below. Ask one question at a time and wait for the answer.
3. Keep your turns short and conversational. If the candidate interrupts you, stop and listen.
4. When you have enough to judge, thank the candidate and tell them the team will follow up.

When the interview is over, say a brief assessment of the candidate and end your final turn with exactly these markers:
{{.ScoreMarker}} where XX is an integer score from {{.MinScore}} to {{.MaxScore}},
{{.HireMarker}} or {{.RejectMarker}},
and then the word {{.Sentinel}}.
Never say the markers or {{.Sentinel}} before the interview is over.

Full role requirements:
{{.RoleRequirements}}
`))

type systemInstructionData struct {
	Organization        string
	CandidateName       string
	RoleTitle           string
	RoleRequirements    string
	RequirementsExcerpt string

	ScoreMarker  string
	HireMarker   string
	RejectMarker string
	Sentinel     string
	MinScore     int
	MaxScore     int
}

// BuildSystemInstruction renders the instruction the remote agent runs the
// interview with.
func BuildSystemInstruction(organization string, candidate Candidate) (string, error) {
	if organization == "" {
		organization = DefaultOrganization
	}

	data := systemInstructionData{
		Organization:        organization,
		CandidateName:       fallback(candidate.Name, "the candidate"),
		RoleTitle:           fallback(candidate.RoleTitle, "open"),
		RoleRequirements:    strings.TrimSpace(candidate.RoleRequirements),
		RequirementsExcerpt: excerpt(candidate.RoleRequirements, requirementsExcerptLength),
		ScoreMarker:         outcome.Tag(outcome.MarkerScore, "XX"),
		HireMarker:          outcome.VerdictTag(outcome.VerdictHire),
		RejectMarker:        outcome.VerdictTag(outcome.VerdictReject),
		Sentinel:            outcome.Sentinel,
		MinScore:            outcome.MinScore,
		MaxScore:            outcome.MaxScore,
	}

	var b strings.Builder
	if err := systemInstructionTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render system instruction: %w", err)
	}
	return b.String(), nil
}

func excerpt(text string, length int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length]) + "..."
}

func fallback(value, otherwise string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return otherwise
}
