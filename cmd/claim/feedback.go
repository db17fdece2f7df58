package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/claim-core/internal/domain/entities"
)

func newFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <claim> <accurate|inaccurate>",
		Short: "Record feedback on a cached verdict",
		Long:  "Marks the stored verdict for a previously analyzed claim as accurate or inaccurate. Inaccurate verdicts are skipped on future cache lookups.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeedback(cmd, args[0], args[1])
		},
	}
}

func runFeedback(cmd *cobra.Command, claimText, value string) error {
	ctx := cmd.Context()

	feedback := entities.Feedback(value)
	if !feedback.Valid() {
		return fmt.Errorf("invalid feedback %q, valid values: accurate, inaccurate", value)
	}

	return withDeps(func(d *Deps) error {
		result, err := d.FeedbackHandler.Handle(ctx, claimText, feedback)
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	})
}
