// Package screening evaluates candidate CVs against a role and turns
// evaluations and interview outcomes into a ranked report.
package screening

import "strings"

type Action string

const (
	ActionStrongHire Action = "Strong Hire"
	ActionInterview  Action = "Interview"
	ActionReject     Action = "Reject"
)

// Evaluation is the model's structured verdict on a CV.
type Evaluation struct {
	CandidateName  string   `json:"candidateName" jsonschema:"description=Full name of the candidate as written on the CV"`
	PhoneNumber    string   `json:"phoneNumber" jsonschema:"description=Phone number of the candidate including country code when present"`
	MatchScore     int      `json:"matchScore" jsonschema:"minimum=0,maximum=100,description=How well the CV matches the role requirements"`
	Strengths      []string `json:"strengths" jsonschema:"description=Requirements the candidate clearly meets"`
	Weaknesses     []string `json:"weaknesses" jsonschema:"description=Requirements the candidate misses or only partly meets"`
	Recommendation string   `json:"recommendation" jsonschema:"description=Two or three sentences a recruiter can act on"`
	Action         Action   `json:"action" jsonschema:"enum=Strong Hire,enum=Interview,enum=Reject"`
}

// ShouldInterview reports whether the candidate is worth a screening call.
func (e Evaluation) ShouldInterview() bool {
	return e.Action == ActionStrongHire || e.Action == ActionInterview
}

func (e *Evaluation) normalize() {
	e.CandidateName = strings.TrimSpace(e.CandidateName)
	e.PhoneNumber = strings.TrimSpace(e.PhoneNumber)
	e.MatchScore = min(max(e.MatchScore, 0), 100)

	switch strings.ToLower(strings.TrimSpace(string(e.Action))) {
	case "strong hire":
		e.Action = ActionStrongHire
	case "interview":
		e.Action = ActionInterview
	default:
		e.Action = ActionReject
	}
}

// CV is an uploaded résumé file.
type CV struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Role is the opening candidates are screened for.
type Role struct {
	Title        string
	Requirements string
}
