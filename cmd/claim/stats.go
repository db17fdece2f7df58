package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Long:  "Reports the number of cached claims, verdict distribution, and audit event counts.",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		total, err := d.index.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting cached claims: %w", err)
		}

		fmt.Printf("Cached claims: %d\n", total)

		records, err := d.index.List(ctx, int(total))
		if err == nil && len(records) > 0 {
			verdicts := make(map[string]int)
			feedback := make(map[string]int)
			timeDependent := 0

			for _, record := range records {
				verdicts[string(record.Verdict)]++
				if record.UserFeedback != "" {
					feedback[string(record.UserFeedback)]++
				}
				if record.TimeDependency.IsTimeDependent {
					timeDependent++
				}
			}

			fmt.Println("\nVerdicts:")
			for verdict, count := range verdicts {
				fmt.Printf("  %-28s %d\n", verdict, count)
			}

			fmt.Printf("\nTime-sensitive claims: %d\n", timeDependent)

			if len(feedback) > 0 {
				fmt.Println("\nFeedback:")
				for value, count := range feedback {
					fmt.Printf("  %-12s %d\n", value, count)
				}
			}
		}

		events, err := d.auditDB.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting audit events: %w", err)
		}

		fmt.Printf("\nAudit events: %d\n", events)
		return nil
	})
}
