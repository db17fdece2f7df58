package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/services"
	"github.com/ersonp/claim-core/internal/infrastructure/auditdb/sqlite"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit     int
		claimText string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent analysis and feedback events",
		Long:  "Lists audit log entries, newest first. Use --claim to show the history of a single claim.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, limit, claimText)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of entries")
	cmd.Flags().StringVarP(&claimText, "claim", "c", "", "Show history for a specific claim")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int, claimText string) error {
	ctx := cmd.Context()

	return withAuditDB(func(db *sqlite.Repository) error {
		var (
			entries []entities.AuditEntry
			err     error
		)

		if claimText != "" {
			entries, err = db.FindByFingerprint(ctx, services.Fingerprint(claimText))
		} else {
			entries, err = db.FindRecent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("reading audit log: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No history found.")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  %-20s %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action, entry.Fingerprint)
			if len(entry.Details) > 0 {
				details, err := json.Marshal(entry.Details)
				if err == nil {
					fmt.Printf("    %s\n", details)
				}
			}
		}

		return nil
	})
}
