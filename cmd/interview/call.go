package main

import (
	"fmt"

	"github.com/spf13/cobra"

	interview "github.com/koscakluka/ema-interview/core"
)

func newCallCommand(configPath *string) *cobra.Command {
	var (
		name         string
		roleTitle    string
		requirements string
	)

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Run a live voice interview with one candidate",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, *configPath)
			if err != nil {
				return err
			}

			role := a.role(roleTitle, requirements)
			result, err := runCall(ctx, a, interview.Candidate{
				Name:             name,
				RoleTitle:        role.Title,
				RoleRequirements: role.Requirements,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result == nil {
				fmt.Fprintln(out, "Call ended without an assessment.")
				return nil
			}
			fmt.Fprintf(out, "Verdict: %s\nScore: %d\n%s\n", result.Verdict, result.Score, result.AssessmentText)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "candidate name")
	cmd.Flags().StringVar(&roleTitle, "role", "", "role title, overrides the config")
	cmd.Flags().StringVar(&requirements, "requirements", "", "role requirements, overrides the config")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
