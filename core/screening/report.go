package screening

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-interview/core/outcome"
)

type FinalVerdict string

const (
	FinalVerdictSelect FinalVerdict = "SELECT"
	FinalVerdictReject FinalVerdict = "REJECT"
)

var reportHeader = []string{
	"Candidate",
	"Phone",
	"Role",
	"CV_Score",
	"Interview_Score",
	"Comprehensive_Score",
	"Final_Verdict",
	"Detailed_Feedback",
}

// ReportRow is one line of the hiring report.
type ReportRow struct {
	Candidate          string
	Phone              string
	Role               string
	CVScore            int
	InterviewScore     int
	ComprehensiveScore float64
	FinalVerdict       FinalVerdict
	DetailedFeedback   string
}

var evaluationToRow = copier.Option{
	FieldNameMapping: []copier.FieldNameMapping{{
		SrcType: Evaluation{},
		DstType: ReportRow{},
		Mapping: map[string]string{
			"CandidateName": "Candidate",
			"PhoneNumber":   "Phone",
			"MatchScore":    "CVScore",
		},
	}},
}

// NewReportRow flattens an interviewed candidate into a report row.
func NewReportRow(result Result) (ReportRow, error) {
	var row ReportRow
	if err := copier.CopyWithOption(&row, result.Evaluation, evaluationToRow); err != nil {
		return ReportRow{}, fmt.Errorf("failed to map evaluation of %q: %w", result.Evaluation.CandidateName, err)
	}

	row.Role = result.Role.Title
	row.ComprehensiveScore = result.ComprehensiveScore()
	row.FinalVerdict = FinalVerdictReject
	row.DetailedFeedback = result.Evaluation.Recommendation

	if result.Outcome != nil {
		row.InterviewScore = result.Outcome.Score
		if result.Outcome.Verdict == outcome.VerdictHire {
			row.FinalVerdict = FinalVerdictSelect
		}
		if feedback := strings.TrimSpace(result.Outcome.AssessmentText); feedback != "" {
			row.DetailedFeedback = feedback
		}
	}
	return row, nil
}

func (r ReportRow) record() []string {
	return []string{
		r.Candidate,
		r.Phone,
		r.Role,
		strconv.Itoa(r.CVScore),
		strconv.Itoa(r.InterviewScore),
		strconv.FormatFloat(r.ComprehensiveScore, 'f', 1, 64),
		string(r.FinalVerdict),
		r.DetailedFeedback,
	}
}

// WriteReport ranks results and writes the interviewed candidates as CSV.
func WriteReport(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, result := range Rank(results) {
		row, err := NewReportRow(result)
		if err != nil {
			return err
		}
		if err := writer.Write(row.record()); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
