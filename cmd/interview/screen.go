package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	interview "github.com/koscakluka/ema-interview/core"
	"github.com/koscakluka/ema-interview/core/screening"
)

func newScreenCommand(configPath *string) *cobra.Command {
	var (
		roleTitle    string
		requirements string
		reportPath   string
	)

	cmd := &cobra.Command{
		Use:   "screen CV...",
		Short: "Evaluate CVs, interview the shortlist and write a ranked report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}

			role := a.role(roleTitle, requirements)
			evaluations, err := evaluateCVs(ctx, a.evaluator(), role, paths)
			if err != nil {
				return err
			}
			printEvaluations(cmd.OutOrStdout(), evaluations)

			var results []screening.Result
			for _, evaluation := range evaluations {
				result := screening.Result{Role: role, Evaluation: evaluation}
				if evaluation.ShouldInterview() {
					result.Outcome, err = runCall(ctx, a, interview.Candidate{
						Name:             evaluation.CandidateName,
						RoleTitle:        role.Title,
						RoleRequirements: role.Requirements,
					})
					if ctx.Err() != nil {
						return ctx.Err()
					}
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "interview with %s failed: %v\n", evaluation.CandidateName, err)
					}
				}
				results = append(results, result)
			}

			if reportPath == "" {
				reportPath = a.cfg.Report.Path
			}
			f, err := os.Create(reportPath)
			if err != nil {
				return fmt.Errorf("failed to create report: %w", err)
			}
			defer f.Close()

			if err := screening.WriteReport(f, results); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleTitle, "role", "", "role title, overrides the config")
	cmd.Flags().StringVar(&requirements, "requirements", "", "role requirements, overrides the config")
	cmd.Flags().StringVar(&reportPath, "report", "", "CSV report path, overrides the config")
	return cmd
}
