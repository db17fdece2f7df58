package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/claim-core/internal/domain/entities"
	"github.com/ersonp/claim-core/internal/domain/ports"
	"github.com/ersonp/claim-core/internal/domain/services"
	"github.com/ersonp/claim-core/internal/infrastructure/parsers"
)

type importFlags struct {
	format     string
	dryRun     bool
	onConflict string
}

func newImportCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import claim records from JSON or CSV",
		Long:  "Imports previously exported claim records. Embeddings are regenerated on upsert.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "File format (json, csv, auto)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&flags.onConflict, "on-conflict", "skip", "Conflict handling (skip, overwrite)")

	return cmd
}

func runImport(cmd *cobra.Command, filePath string, flags importFlags) error {
	if flags.onConflict != "skip" && flags.onConflict != "overwrite" {
		return fmt.Errorf("invalid --on-conflict value %q (valid: skip, overwrite)", flags.onConflict)
	}

	parser := parsers.ForFormat(flags.format)
	if flags.format == "auto" {
		parser = parsers.ForFile(filePath)
	}
	if parser == nil {
		return fmt.Errorf("unsupported format for %s (valid: json, csv)", filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	raw, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	ctx := cmd.Context()

	fmt.Printf("Importing %s...\n", filePath)

	return withIndex(func(index ports.SemanticIndex) error {
		var imported, skipped, failed int

		for _, rawRecord := range raw {
			record, err := toClaimRecord(rawRecord)
			if err != nil {
				failed++
				fmt.Printf("  line %d: %v\n", rawRecord.LineNum, err)
				continue
			}

			if flags.onConflict == "skip" {
				_, found, err := index.Get(ctx, record.Fingerprint)
				if err != nil {
					return fmt.Errorf("checking existing record: %w", err)
				}
				if found {
					skipped++
					continue
				}
			}

			if flags.dryRun {
				imported++
				continue
			}

			if err := index.Upsert(ctx, record); err != nil {
				failed++
				fmt.Printf("  failed: %s (%v)\n", truncate(record.ClaimText, 60), err)
				continue
			}
			imported++
		}

		fmt.Println()
		if flags.dryRun {
			fmt.Printf("Dry run: %d records would be imported", imported)
		} else {
			fmt.Printf("Imported: %d records", imported)
		}
		if skipped > 0 {
			fmt.Printf(", %d skipped (already exist)", skipped)
		}
		if failed > 0 {
			fmt.Printf(", %d failed", failed)
		}
		fmt.Println()

		return nil
	})
}

// toClaimRecord validates a parsed record and converts it to the
// domain entity. The fingerprint is always recomputed so imported
// records stay consistent with records analyzed locally.
func toClaimRecord(raw parsers.RawRecord) (entities.ClaimRecord, error) {
	if strings.TrimSpace(raw.ClaimText) == "" {
		return entities.ClaimRecord{}, fmt.Errorf("missing claim_text")
	}
	if raw.Verdict == "" {
		return entities.ClaimRecord{}, fmt.Errorf("missing verdict")
	}

	evidence := make([]entities.EvidenceLink, 0, len(raw.Evidence))
	for _, e := range raw.Evidence {
		evidence = append(evidence, entities.EvidenceLink{
			Title:   e.Title,
			URL:     e.URL,
			Source:  e.Source,
			Snippet: e.Snippet,
		})
	}

	return entities.ClaimRecord{
		Fingerprint: services.Fingerprint(raw.ClaimText),
		ClaimText:   raw.ClaimText,
		Verdict:     entities.Verdict(raw.Verdict),
		Explanation: raw.Explanation,
		CreatedAt:   services.ParseTimestamp(raw.CreatedAt),
		Evidence:    evidence,
		TimeDependency: entities.TimeDependency{
			IsTimeDependent: raw.TimeDependency.IsTimeDependent,
			DurationDays:    raw.TimeDependency.DurationDays,
		},
		UserFeedback: entities.Feedback(raw.UserFeedback),
		FeedbackAt:   services.ParseTimestamp(raw.FeedbackAt),
	}, nil
}
