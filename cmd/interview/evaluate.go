package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-interview/core/screening"
)

func newEvaluateCommand(configPath *string) *cobra.Command {
	var (
		roleTitle    string
		requirements string
	)

	cmd := &cobra.Command{
		Use:   "evaluate CV...",
		Short: "Score CVs against the role",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}

			evaluations, err := evaluateCVs(ctx, a.evaluator(), a.role(roleTitle, requirements), paths)
			if err != nil {
				return err
			}
			printEvaluations(cmd.OutOrStdout(), evaluations)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleTitle, "role", "", "role title, overrides the config")
	cmd.Flags().StringVar(&requirements, "requirements", "", "role requirements, overrides the config")
	return cmd
}

func readCV(path string) (screening.CV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return screening.CV{}, fmt.Errorf("failed to read cv: %w", err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return screening.CV{FileName: filepath.Base(path), MIMEType: mimeType, Data: data}, nil
}

// evaluateCVs evaluates every CV and returns the evaluations by match score.
// A CV that fails is reported and skipped.
func evaluateCVs(ctx context.Context, evaluator *screening.Evaluator, role screening.Role, paths []string) ([]screening.Evaluation, error) {
	var evaluations []screening.Evaluation
	for _, path := range paths {
		cv, err := readCV(path)
		if err == nil {
			var evaluation screening.Evaluation
			if evaluation, err = evaluator.Evaluate(ctx, cv, role); err == nil {
				evaluations = append(evaluations, evaluation)
				continue
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
	}

	slices.SortStableFunc(evaluations, func(a, b screening.Evaluation) int { return b.MatchScore - a.MatchScore })
	return evaluations, nil
}

var (
	headerCell = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cell       = lipgloss.NewStyle().PaddingRight(2)
)

func printEvaluations(w io.Writer, evaluations []screening.Evaluation) {
	columns := [][]string{{"Candidate"}, {"Phone"}, {"Match"}, {"Action"}}
	for _, e := range evaluations {
		columns[0] = append(columns[0], e.CandidateName)
		columns[1] = append(columns[1], e.PhoneNumber)
		columns[2] = append(columns[2], fmt.Sprintf("%d", e.MatchScore))
		columns[3] = append(columns[3], string(e.Action))
	}

	rendered := make([]string, len(columns))
	for i, column := range columns {
		rows := make([]string, len(column))
		for j, value := range column {
			if j == 0 {
				rows[j] = headerCell.Render(value)
			} else {
				rows[j] = cell.Render(value)
			}
		}
		rendered[i] = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}
