package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
)

// DefaultExportLimit bounds an export when no limit flag is given.
const DefaultExportLimit = 1000

var validFormats = []string{"json", "csv"}

type exportFlags struct {
	format string
	output string
	limit  int
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cached claims to file",
		Long:  "Exports cached claim records to JSON or CSV format.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultExportLimit, "Maximum number of records to export")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	return withIndex(func(index ports.SemanticIndex) error {
		records, err := index.List(ctx, flags.limit)
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}

		w := os.Stdout
		if flags.output != "" {
			f, err := os.Create(flags.output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		switch flags.format {
		case "csv":
			return formatCSV(w, records)
		default:
			return formatJSON(w, records)
		}
	})
}

func formatJSON(w io.Writer, records []entities.ClaimRecord) error {
	if records == nil {
		records = []entities.ClaimRecord{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func formatCSV(w io.Writer, records []entities.ClaimRecord) error {
	writer := csv.NewWriter(w)

	header := []string{"fingerprint", "claim_text", "verdict", "explanation", "timestamp", "is_time_dependent", "dependency_duration_days", "user_feedback"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Fingerprint,
			r.ClaimText,
			string(r.Verdict),
			r.Explanation,
			r.CreatedAt.UTC().Format(time.RFC3339),
			fmt.Sprintf("%t", r.TimeDependency.IsTimeDependent),
			fmt.Sprintf("%d", r.TimeDependency.DurationDays),
			string(r.UserFeedback),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// truncate shortens long claim text for terminal display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
